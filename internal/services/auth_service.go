package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/glocomx/auth-service/internal/auth"
	"github.com/glocomx/auth-service/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create hashes the password and inserts a new user linked to the given roles.
	//
	// "user" parameter is the user to create, its ID is filled in on success.
	// "password" parameter is the plaintext password, it is never stored as is.
	// "roles" parameter lists names of already existing roles the user is added to.
	//
	// If a user with the same email exists, models.ErrDuplicateEmail is returned.
	Create(ctx context.Context, user *models.User, password string, roles []string) error
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, models.ErrUserNotFound is returned.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method GetRoles returns the names of the roles the user belongs to.
	GetRoles(ctx context.Context, userID string) ([]string, error)
}

// dummyHash is compared against when the user does not exist so that
// unknown emails and wrong passwords take the same time
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("glocomx-dummy-password"), bcrypt.DefaultCost)
	return hash
})

// authService implements AuthService
type authService struct {
	userRepo    UserRepository
	tokenIssuer *auth.TokenIssuer
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenIssuer *auth.TokenIssuer, logger *zap.Logger) *authService {
	return &authService{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
		logger:      logger,
	}
}

// Login verifies the credentials and issues a signed session token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	token, expiresAt, err := s.tokenIssuer.Issue(auth.NewClaimsBundle(user.Username, roles))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Debug("user logged in", zap.String("userId", user.ID))

	return &models.LoginResponse{
		Token:      token,
		UserID:     user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		ProfilePic: user.ProfilePic,
		Email:      user.Email,
		Expiration: expiresAt,
	}, nil
}
