package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devtinder/internal/feed"
	"devtinder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user and indexes its skills.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return replaceSkills(tx, user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user with email %s: %w", user.EmailID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update writes the named fields of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User, fields ...string) error {
	if len(fields) == 0 {
		return fmt.Errorf("update of user %s names no fields", user.ID)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save would insert a missing row and rewrite every column, so update explicitly.
		res := tx.Model(user).Select(fields).Updates(user)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
		}
		if !hasField(fields, "Skills") {
			return nil
		}
		return replaceSkills(tx, user)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// escapeLike makes s match literally inside a LIKE pattern that uses '!' as its escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func replaceSkills(tx *gorm.DB, user *models.User) error {
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserSkill{}).Error; err != nil {
		return err
	}
	if len(user.Skills) == 0 {
		return nil
	}
	rows := make([]models.UserSkill, 0, len(user.Skills))
	for _, s := range user.Skills {
		rows = append(rows, models.UserSkill{UserID: user.ID, Name: strings.ToLower(s)})
	}
	return tx.Create(&rows).Error
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email_id = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByIDs retrieves every existing user among ids. Missing ids are skipped.
func (r *GORMUserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	return users, nil
}

// FindFeed runs the feed predicate in SQL.
func (r *GORMUserRepository) FindFeed(ctx context.Context, q feed.Query, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(r.feedScope(q)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feed users: %w", err)
	}

	users := []models.User{}
	err := r.db.WithContext(ctx).
		Scopes(r.feedScope(q)).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find feed users: %w", err)
	}
	return users, total, nil
}

func (r *GORMUserRepository) feedScope(q feed.Query) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(q.ExcludedIDs) > 0 {
			db = db.Where("id NOT IN ?", q.ExcludedIDs)
		}
		if len(q.Skills) > 0 {
			conds := make([]string, 0, len(q.Skills))
			args := make([]interface{}, 0, len(q.Skills))
			for _, s := range q.Skills {
				conds = append(conds, "EXISTS (SELECT 1 FROM user_skills WHERE user_skills.user_id = users.id AND user_skills.name LIKE ? ESCAPE '!')")
				args = append(args, "%"+escapeLike(s)+"%")
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		}
		if q.MinAge != nil {
			db = db.Where("age >= ?", *q.MinAge)
		}
		if q.MaxAge != nil {
			db = db.Where("age <= ?", *q.MaxAge)
		}
		if q.Gender != "" {
			db = db.Where("gender = ?", q.Gender)
		}
		return db
	}
}
