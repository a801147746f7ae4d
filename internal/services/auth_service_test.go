package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"devtinder/internal/feed"
	"devtinder/internal/models"
	"devtinder/internal/repositories"
	"devtinder/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(_ context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(_ context.Context, user *models.User, fields ...string) error {
	args := m.Called(user, fields)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) FindFeed(_ context.Context, q feed.Query, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(q, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func validSignUp() *models.SignUpRequest {
	return &models.SignUpRequest{
		FirstName: "Test",
		LastName:  "User",
		EmailID:   "  Test@Example.com ",
		Password:  "Passw0rd!",
		Age:       25,
		Gender:    "Female",
		Skills:    []string{" go ", "", "sql"},
	}
}

func TestAuthService_SignUp(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, bcrypt.MinCost, publisher)

	// Test successful registration
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	publisher.On("Publish", services.EventUserRegistered, mock.Anything).Return(nil).Once()

	user, err := authService.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.EmailID)
	assert.Equal(t, models.GenderFemale, user.Gender)
	assert.Equal(t, models.DefaultPhotoURL, user.PhotoURL)
	assert.Equal(t, []string{"go", "sql"}, []string(user.Skills))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Passw0rd!")))
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.SignUp(context.Background(), validSignUp())
	assert.True(t, errors.Is(err, services.ErrEmailTaken))
	mockRepo.AssertExpectations(t)

	// Test losing the unique index race
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(fmt.Errorf("wrapped: %w", repositories.ErrDuplicate)).Once()
	_, err = authService.SignUp(context.Background(), validSignUp())
	assert.True(t, errors.Is(err, services.ErrEmailTaken))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, bcrypt.MinCost, nil)

	req := validSignUp()
	req.Password = "weak"
	req.Age = 17
	_, err := authService.SignUp(context.Background(), req)
	require.Error(t, err)

	var svcErr *services.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, services.KindValidation, svcErr.Kind)
	assert.Contains(t, svcErr.Fields, "password")
	assert.Contains(t, svcErr.Fields, "age")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_SignUpNormalizesBeforeValidating(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, bcrypt.MinCost, nil)

	req := validSignUp()
	req.EmailID = "\tAda@Example.COM  "
	req.Skills = []string{"", "  ", " Rust"}

	mockRepo.On("GetByEmail", "ada@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.SignUp(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.EmailID)
	assert.Equal(t, []string{"Rust"}, []string(user.Skills))

	// The caller's payload is left as sent.
	assert.Equal(t, "\tAda@Example.COM  ", req.EmailID)
	assert.Len(t, req.Skills, 3)
	mockRepo.AssertExpectations(t)

	// Normalizing never hides a malformed address.
	req = validSignUp()
	req.EmailID = "  not-an-email "
	_, err = authService.SignUp(context.Background(), req)
	var svcErr *services.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "Invalid email format", svcErr.Fields["emailId"])
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, bcrypt.MinCost, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	user := &models.User{
		ID:       "user-123",
		EmailID:  "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByEmail", user.EmailID).Return(user, nil).Once()
	token, got, err := authService.Login(context.Background(), &models.LoginRequest{LoggedEmail: "  TEST@example.com ", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Contains(t, claims, "iat")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", user.EmailID).Return(user, nil).Once()
	_, _, err = authService.Login(context.Background(), &models.LoginRequest{LoggedEmail: user.EmailID, Password: "Wr0ngpass!"})
	assert.True(t, errors.Is(err, services.ErrInvalidCredentials))
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.Login(context.Background(), &models.LoginRequest{LoggedEmail: "nobody@example.com", Password: "Passw0rd!"})
	assert.True(t, errors.Is(err, services.ErrInvalidCredentials))
	mockRepo.AssertExpectations(t)

	// Test malformed email
	_, _, err = authService.Login(context.Background(), &models.LoginRequest{LoggedEmail: "not-an-email", Password: "x"})
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, bcrypt.MinCost, nil)

	validTokenString, err := authService.GenerateToken("user-123")
	require.NoError(t, err)

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)

	// Test token signed with another secret
	other := services.NewAuthService(mockRepo, "other-secret", time.Hour, bcrypt.MinCost, nil)
	foreign, _ := other.GenerateToken("user-123")
	_, err = authService.ValidateToken(foreign)
	assert.Error(t, err)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, bcrypt.MinCost, nil)
	token, _ := authService.GenerateToken("user-123")

	mockRepo.On("GetByID", "user-123").Return(&models.User{ID: "user-123", FirstName: "Ada"}, nil).Once()
	user, err := authService.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)

	mockRepo.On("GetByID", "user-123").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Authenticate(context.Background(), token)
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))

	_, err = authService.Authenticate(context.Background(), "")
	assert.True(t, errors.Is(err, services.ErrUnauthenticated))
	mockRepo.AssertExpectations(t)
}
