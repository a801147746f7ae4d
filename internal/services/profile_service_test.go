package services_test

import (
	"context"
	"errors"
	"testing"

	"devtinder/internal/models"
	"devtinder/internal/repositories"
	"devtinder/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestProfileService_EditProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	profiles := services.NewProfileService(mockRepo, bcrypt.MinCost)
	user := &models.User{ID: "u1", FirstName: "Old", LastName: "Name", Age: 30, Gender: models.GenderMale, Bio: "bio"}

	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.FirstName == "New" && u.Gender == models.GenderOthers && u.Bio == "bio"
	}), []string{"FirstName", "Gender"}).Return(nil).Once()

	updated, err := profiles.EditProfile(context.Background(), user,
		[]string{"firstName", "gender"},
		&models.EditProfileRequest{FirstName: strPtr(" New "), Gender: strPtr("Others")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, "Old", user.FirstName, "the caller's record is not mutated")
	mockRepo.AssertExpectations(t)

	_, err = profiles.EditProfile(context.Background(), user, []string{"firstName", "emailId"}, &models.EditProfileRequest{})
	assert.True(t, errors.Is(err, services.ErrInvalidEditRequest))

	_, err = profiles.EditProfile(context.Background(), user, []string{"age"}, &models.EditProfileRequest{Age: intPtr(61)})
	assert.True(t, errors.Is(err, services.ErrValidation))
	mockRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestProfileService_UpdatePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	profiles := services.NewProfileService(mockRepo, bcrypt.MinCost)
	user := &models.User{ID: "u1", Password: "old-hash"}

	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("N3wPassw0rd!")) == nil
	}), []string{"Password"}).Return(nil).Once()

	err := profiles.UpdatePassword(context.Background(), user, &models.UpdatePasswordRequest{NewPassword: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"})
	require.NoError(t, err)

	err = profiles.UpdatePassword(context.Background(), user, &models.UpdatePasswordRequest{NewPassword: "N3wPassw0rd!", ConfirmPassword: "different"})
	var svcErr *services.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Passwords do not match", svcErr.Fields["confirmPassword"])

	err = profiles.UpdatePassword(context.Background(), user, &models.UpdatePasswordRequest{NewPassword: "weak", ConfirmPassword: "weak"})
	assert.True(t, errors.Is(err, services.ErrValidation))
	mockRepo.AssertExpectations(t)
}

func TestProfileService_EditKeepsConcurrentChanges(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	profiles := services.NewProfileService(repo, bcrypt.MinCost)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, repo.Create(ctx, &models.User{
		FirstName: "Ada", LastName: "Lovelace", EmailID: "ada@example.com",
		Password: string(hashed), Age: 36, Gender: models.GenderFemale, Bio: "math",
	}))
	stored, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	// Both requests authenticated with the same snapshot.
	staleA, staleB := *stored, *stored

	require.NoError(t, profiles.UpdatePassword(ctx, &staleA,
		&models.UpdatePasswordRequest{NewPassword: "N3wPassw0rd!", ConfirmPassword: "N3wPassw0rd!"}))
	_, err = profiles.EditProfile(ctx, &staleB, []string{"bio"}, &models.EditProfileRequest{Bio: strPtr("engines")})
	require.NoError(t, err)
	_, err = profiles.EditProfile(ctx, &staleA, []string{"age"}, &models.EditProfileRequest{Age: intPtr(37)})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("N3wPassw0rd!")))
	assert.Equal(t, "engines", got.Bio)
	assert.Equal(t, 37, got.Age)
	assert.Equal(t, "Ada", got.FirstName)
}
