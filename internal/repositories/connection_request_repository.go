package repositories

import (
	"context"

	"devtinder/internal/models"
)

// ConnectionRequestRepository defines the interface for connection request data access.
type ConnectionRequestRepository interface {
	// Create fails with ErrDuplicate when a record already exists for the unordered pair.
	Create(ctx context.Context, req *models.ConnectionRequest) error
	GetByID(ctx context.Context, id string) (*models.ConnectionRequest, error)
	// FindByPair returns the record connecting a and b in either direction.
	FindByPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error)
	// FindPending returns the request with id addressed to toUserID that is still interested.
	FindPending(ctx context.Context, id, toUserID string) (*models.ConnectionRequest, error)
	// UpdateStatusIfPending atomically moves a pending request addressed to toUserID to status.
	// It fails with ErrNotFound when the request is no longer pending.
	UpdateStatusIfPending(ctx context.Context, id, toUserID string, status models.ConnectionStatus) error
	ListByRecipient(ctx context.Context, toUserID string, status models.ConnectionStatus) ([]models.ConnectionRequest, error)
	ListAccepted(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	// ListInvolving returns every request sent or received by userID, whatever its status.
	ListInvolving(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	ExistsAccepted(ctx context.Context, a, b string) (bool, error)
}
