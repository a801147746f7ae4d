package services

import (
	"context"
	"strings"

	"devtinder/internal/models"
	"devtinder/internal/repositories"
	"devtinder/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ProfileService lets a user change their own record.
type ProfileService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, bcryptCost int) *ProfileService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ProfileService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// EditProfile applies the fields present in req to user. keys are the top-level keys of the
// request body; any key outside the editable set rejects the whole edit.
func (s *ProfileService) EditProfile(ctx context.Context, user *models.User, keys []string, req *models.EditProfileRequest) (*models.User, error) {
	if res := validation.EditProfileFields(keys); !res.Valid {
		e := *ErrInvalidEditRequest
		e.Fields = res.Errors
		return nil, &e
	}
	if res := validation.EditProfile(req); !res.Valid {
		return nil, validationFailed(res.Errors)
	}

	updated := *user
	var fields []string
	if req.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*req.FirstName)
		fields = append(fields, "FirstName")
	}
	if req.LastName != nil {
		updated.LastName = strings.TrimSpace(*req.LastName)
		fields = append(fields, "LastName")
	}
	if req.Age != nil {
		updated.Age = *req.Age
		fields = append(fields, "Age")
	}
	if req.Gender != nil {
		updated.Gender = models.NormalizeGender(*req.Gender)
		fields = append(fields, "Gender")
	}
	if req.PhotoURL != nil {
		updated.PhotoURL = strings.TrimSpace(*req.PhotoURL)
		if updated.PhotoURL == "" {
			updated.PhotoURL = models.DefaultPhotoURL
		}
		fields = append(fields, "PhotoURL")
	}
	if req.Bio != nil {
		updated.Bio = strings.TrimSpace(*req.Bio)
		fields = append(fields, "Bio")
	}
	if req.Skills != nil {
		updated.Skills = models.NormalizeSkills(*req.Skills)
		fields = append(fields, "Skills")
	}
	if len(fields) == 0 {
		return &updated, nil
	}

	// Only the edited columns are written; the credential is never part of an edit.
	if err := s.userRepo.Update(ctx, &updated, fields...); err != nil {
		return nil, internal("edit profile", err)
	}
	return &updated, nil
}

// UpdatePassword replaces the user's credential.
func (s *ProfileService) UpdatePassword(ctx context.Context, user *models.User, req *models.UpdatePasswordRequest) error {
	if res := validation.UpdatePassword(req); !res.Valid {
		return validationFailed(res.Errors)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return internal("hash password", err)
	}
	updated := *user
	updated.Password = string(hashed)
	if err := s.userRepo.Update(ctx, &updated, "Password"); err != nil {
		return internal("update password", err)
	}
	return nil
}
