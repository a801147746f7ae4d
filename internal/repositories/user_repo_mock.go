package repositories

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"devtinder/internal/feed"
	"devtinder/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.EmailID == user.EmailID {
			return fmt.Errorf("user with email %s: %w", user.EmailID, ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(*user)
	return nil
}

// Update copies the named fields of user onto the stored record.
func (r *MockUserRepository) Update(_ context.Context, user *models.User, fields ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(fields) == 0 {
		return fmt.Errorf("update of user %s names no fields", user.ID)
	}
	stored, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	src := reflect.ValueOf(user).Elem()
	dst := reflect.ValueOf(&stored).Elem()
	for _, f := range fields {
		field := dst.FieldByName(f)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("unknown user field %q", f)
		}
		field.Set(src.FieldByName(f))
	}
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	r.users[user.ID] = cloneUser(stored)
	return nil
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	user = cloneUser(user)
	return &user, nil
}

// GetByEmail returns a user by its email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.EmailID == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByIDs returns the existing users among ids.
func (r *MockUserRepository) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

// FindFeed evaluates q in memory, ordered by creation time.
func (r *MockUserRepository) FindFeed(_ context.Context, q feed.Query, offset, limit int) ([]models.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := []models.User{}
	for _, u := range r.users {
		if q.Matches(&u) {
			matches = append(matches, cloneUser(u))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	total := int64(len(matches))
	if offset >= len(matches) {
		return []models.User{}, total, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

func cloneUser(u models.User) models.User {
	if u.Skills != nil {
		u.Skills = append([]string(nil), u.Skills...)
	}
	return u
}
