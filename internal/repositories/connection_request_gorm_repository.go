package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devtinder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMConnectionRequestRepository is a GORM implementation of ConnectionRequestRepository.
type GORMConnectionRequestRepository struct {
	db *gorm.DB
}

// NewGORMConnectionRequestRepository creates a new instance of GORMConnectionRequestRepository.
func NewGORMConnectionRequestRepository(db *gorm.DB) *GORMConnectionRequestRepository {
	return &GORMConnectionRequestRepository{db: db}
}

// Create inserts a request. The unique pair_key index rejects a second record for the pair.
func (r *GORMConnectionRequestRepository) Create(ctx context.Context, req *models.ConnectionRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.PairKey = models.PairKey(req.FromUserID, req.ToUserID)
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("connection request between %s and %s: %w", req.FromUserID, req.ToUserID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create connection request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by its ID.
func (r *GORMConnectionRequestRepository) GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("connection request with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get connection request %s: %w", id, err)
	}
	return &req, nil
}

// FindByPair retrieves the request between a and b, in either direction.
func (r *GORMConnectionRequestRepository) FindByPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("connection request between %s and %s: %w", a, b, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find connection request between %s and %s: %w", a, b, err)
	}
	return &req, nil
}

// FindPending retrieves an interested request addressed to toUserID.
func (r *GORMConnectionRequestRepository) FindPending(ctx context.Context, id, toUserID string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND to_user_id = ? AND status = ?", id, toUserID, models.StatusInterested).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pending connection request %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find pending connection request %s: %w", id, err)
	}
	return &req, nil
}

// UpdateStatusIfPending matches on the current status so only one concurrent review wins.
func (r *GORMConnectionRequestRepository) UpdateStatusIfPending(ctx context.Context, id, toUserID string, status models.ConnectionStatus) error {
	res := r.db.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("id = ? AND to_user_id = ? AND status = ?", id, toUserID, models.StatusInterested).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update connection request %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending connection request %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListByRecipient lists requests addressed to toUserID with the given status.
func (r *GORMConnectionRequestRepository) ListByRecipient(ctx context.Context, toUserID string, status models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	reqs := []models.ConnectionRequest{}
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", toUserID, status).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for %s: %w", toUserID, err)
	}
	return reqs, nil
}

// ListAccepted lists accepted requests sent or received by userID.
func (r *GORMConnectionRequestRepository) ListAccepted(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	reqs := []models.ConnectionRequest{}
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Order("updated_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list connections for %s: %w", userID, err)
	}
	return reqs, nil
}

// ListInvolving lists every request sent or received by userID.
func (r *GORMConnectionRequestRepository) ListInvolving(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	reqs := []models.ConnectionRequest{}
	err := r.db.WithContext(ctx).
		Select("id", "from_user_id", "to_user_id", "status").
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests involving %s: %w", userID, err)
	}
	return reqs, nil
}

// ExistsAccepted reports whether an accepted request links a and b.
func (r *GORMConnectionRequestRepository) ExistsAccepted(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ConnectionRequest{}).
		Where("pair_key = ? AND status = ?", models.PairKey(a, b), models.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check connection between %s and %s: %w", a, b, err)
	}
	return count > 0, nil
}
