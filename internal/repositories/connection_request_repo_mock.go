package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"devtinder/internal/models"

	"github.com/google/uuid"
)

// MockConnectionRequestRepository is an in-memory implementation of ConnectionRequestRepository.
type MockConnectionRequestRepository struct {
	requests map[string]models.ConnectionRequest
	mu       sync.RWMutex
}

// NewMockConnectionRequestRepository creates a new instance of MockConnectionRequestRepository.
func NewMockConnectionRequestRepository() *MockConnectionRequestRepository {
	return &MockConnectionRequestRepository{
		requests: make(map[string]models.ConnectionRequest),
	}
}

// Create adds a request, rejecting a second record for the same unordered pair.
func (r *MockConnectionRequestRepository) Create(_ context.Context, req *models.ConnectionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.PairKey(req.FromUserID, req.ToUserID)
	for _, existing := range r.requests {
		if existing.PairKey == key {
			return fmt.Errorf("connection request between %s and %s: %w", req.FromUserID, req.ToUserID, ErrDuplicate)
		}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now()
	req.PairKey = key
	req.CreatedAt = now
	req.UpdatedAt = now
	r.requests[req.ID] = *req
	return nil
}

// GetByID returns a request by its ID.
func (r *MockConnectionRequestRepository) GetByID(_ context.Context, id string) (*models.ConnectionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("connection request with ID %s: %w", id, ErrNotFound)
	}
	return &req, nil
}

// FindByPair returns the request between a and b in either direction.
func (r *MockConnectionRequestRepository) FindByPair(_ context.Context, a, b string) (*models.ConnectionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := models.PairKey(a, b)
	for _, req := range r.requests {
		if req.PairKey == key {
			return &req, nil
		}
	}
	return nil, fmt.Errorf("connection request between %s and %s: %w", a, b, ErrNotFound)
}

// FindPending returns an interested request addressed to toUserID.
func (r *MockConnectionRequestRepository) FindPending(_ context.Context, id, toUserID string) (*models.ConnectionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok || req.ToUserID != toUserID || req.Status != models.StatusInterested {
		return nil, fmt.Errorf("pending connection request %s: %w", id, ErrNotFound)
	}
	return &req, nil
}

// UpdateStatusIfPending changes the status under the write lock if the request is still pending.
func (r *MockConnectionRequestRepository) UpdateStatusIfPending(_ context.Context, id, toUserID string, status models.ConnectionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok || req.ToUserID != toUserID || req.Status != models.StatusInterested {
		return fmt.Errorf("pending connection request %s: %w", id, ErrNotFound)
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	r.requests[id] = req
	return nil
}

// ListByRecipient lists requests addressed to toUserID with the given status.
func (r *MockConnectionRequestRepository) ListByRecipient(_ context.Context, toUserID string, status models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	return r.filter(func(req models.ConnectionRequest) bool {
		return req.ToUserID == toUserID && req.Status == status
	}), nil
}

// ListAccepted lists accepted requests involving userID.
func (r *MockConnectionRequestRepository) ListAccepted(_ context.Context, userID string) ([]models.ConnectionRequest, error) {
	return r.filter(func(req models.ConnectionRequest) bool {
		return req.Involves(userID) && req.Status == models.StatusAccepted
	}), nil
}

// ListInvolving lists every request involving userID.
func (r *MockConnectionRequestRepository) ListInvolving(_ context.Context, userID string) ([]models.ConnectionRequest, error) {
	return r.filter(func(req models.ConnectionRequest) bool {
		return req.Involves(userID)
	}), nil
}

// ExistsAccepted reports whether an accepted request links a and b.
func (r *MockConnectionRequestRepository) ExistsAccepted(_ context.Context, a, b string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := models.PairKey(a, b)
	for _, req := range r.requests {
		if req.PairKey == key && req.Status == models.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockConnectionRequestRepository) filter(keep func(models.ConnectionRequest) bool) []models.ConnectionRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.ConnectionRequest{}
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
