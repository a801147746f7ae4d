package repositories

import (
	"context"

	"devtinder/internal/feed"
	"devtinder/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// Update writes only the named fields (Go field names) of user, so concurrent edits of
	// other fields survive. Naming Skills re-indexes the user's skills.
	Update(ctx context.Context, user *models.User, fields ...string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	// FindFeed returns one page of users matching q and the total number of matches.
	FindFeed(ctx context.Context, q feed.Query, offset, limit int) ([]models.User, int64, error)
}
