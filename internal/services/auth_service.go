package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"devtinder/internal/models"
	"devtinder/internal/repositories"
	"devtinder/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration // Duration for which JWT is valid
	bcryptCost int
	events     EventPublisher
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int, events EventPublisher) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		events:     events,
	}
}

// TokenTTL is how long an issued token stays valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// SignUp validates the payload, hashes the password and saves the new user.
func (s *AuthService) SignUp(ctx context.Context, in *models.SignUpRequest) (*models.User, error) {
	// Validate the normalized form so padded emails and blank skill entries are accepted.
	req := *in
	req.EmailID = models.NormalizeEmail(req.EmailID)
	req.Skills = models.NormalizeSkills(req.Skills)
	if res := validation.SignUp(&req); !res.Valid {
		return nil, validationFailed(res.Errors)
	}

	email := req.EmailID
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("signup lookup", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, internal("hash password", err)
	}

	photo := strings.TrimSpace(req.PhotoURL)
	if photo == "" {
		photo = models.DefaultPhotoURL
	}
	user := &models.User{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		EmailID:   email,
		Password:  string(hashedPassword),
		Age:       req.Age,
		Gender:    models.NormalizeGender(req.Gender),
		PhotoURL:  photo,
		Bio:       strings.TrimSpace(req.Bio),
		Skills:    req.Skills,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup with the same email loses on the unique index.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, internal("create user", err)
	}

	publish(s.events, EventUserRegistered, map[string]interface{}{
		"userId": user.ID,
		"email":  user.EmailID,
	})
	return user, nil
}

// Login authenticates a user and returns a signed JWT with the user.
func (s *AuthService) Login(ctx context.Context, in *models.LoginRequest) (string, *models.User, error) {
	req := *in
	req.LoggedEmail = models.NormalizeEmail(req.LoggedEmail)
	if res := validation.Login(&req); !res.Valid {
		return "", nil, validationFailed(res.Errors)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.LoggedEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Unknown email and wrong password look the same to the caller.
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, internal("login lookup", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", nil, internal("sign token", err)
	}
	return token, user, nil
}

// GenerateToken signs an HS256 token for userID.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// Authenticate resolves a token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, with(ErrUnauthenticated, "Invalid or expired token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, with(ErrUnauthenticated, "Invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, with(ErrUnauthenticated, "User not found")
		}
		return nil, internal("authenticate", err)
	}
	return user, nil
}
