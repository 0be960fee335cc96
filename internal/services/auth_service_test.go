package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glocomx/auth-service/internal/auth"
	"github.com/glocomx/auth-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	users       map[string]*models.User // keyed by email
	roles       map[string][]string     // keyed by user id
	getErr      error
	existsErr   error
	createErr   error
	rolesErr    error
	createCalls int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*models.User),
		roles: make(map[string][]string),
	}
}

// addUser stores a user with the given password and roles
func (m *mockUserRepository) addUser(t *testing.T, user *models.User, password string, roles ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)
	m.users[user.Email] = user
	m.roles[user.ID] = roles
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User, password string, roles []string) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[user.Email]; ok {
		return models.ErrDuplicateEmail
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	user.PasswordHash = string(hash)
	m.users[user.Email] = user
	m.roles[user.ID] = append([]string(nil), roles...)
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.users[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	if m.rolesErr != nil {
		return nil, m.rolesErr
	}
	return m.roles[userID], nil
}

func newTestTokenIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer("test-secret", "https://glocomx.test", "https://app.glocomx.test", 3*time.Hour)
}

func TestNewAuthService(t *testing.T) {
	logger := zap.NewNop()
	userRepo := newMockUserRepository()
	issuer := newTestTokenIssuer()

	svc := NewAuthService(userRepo, issuer, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, userRepo, svc.userRepo)
	assert.Equal(t, issuer, svc.tokenIssuer)
	assert.Equal(t, logger, svc.logger)
}

func TestAuthService_Login(t *testing.T) {
	issuer := newTestTokenIssuer()

	tests := []struct {
		name          string
		req           *models.LoginRequest
		setupRepo     func(t *testing.T, repo *mockUserRepository)
		expectedRoles []string
		expectedError error
		expectError   bool
	}{
		{
			name: "success with roles",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{
					ID: "user-1", Email: "jane@example.com", Username: "JaneDoe",
					FirstName: "Jane", LastName: "Doe", ProfilePic: "Resources/Images/ProfilePics/jane.png",
				}, "Password123!", "Admin", "User")
			},
			expectedRoles: []string{"Admin", "User"},
		},
		{
			name: "duplicate roles are collapsed",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"},
					"Password123!", "User", "Admin", "User")
			},
			expectedRoles: []string{"User", "Admin"},
		},
		{
			name: "success without roles",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
			},
			expectedRoles: nil,
		},
		{
			name: "email is trimmed",
			req:  &models.LoginRequest{Email: "  jane@example.com ", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!", "User")
			},
			expectedRoles: []string{"User"},
		},
		{
			name: "unknown email",
			req:  &models.LoginRequest{Email: "nobody@example.com", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
			},
			expectedError: ErrInvalidCredentials,
			expectError:   true,
		},
		{
			name: "wrong password",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: "WrongPassword1!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
			},
			expectedError: ErrInvalidCredentials,
			expectError:   true,
		},
		{
			name: "empty password",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: ""},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
			},
			expectedError: ErrInvalidCredentials,
			expectError:   true,
		},
		{
			name: "repository error",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.getErr = errors.New("database error")
			},
			expectError: true,
		},
		{
			name: "roles repository error",
			req:  &models.LoginRequest{Email: "jane@example.com", Password: "Password123!"},
			setupRepo: func(t *testing.T, repo *mockUserRepository) {
				repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
				repo.rolesErr = errors.New("database error")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockUserRepository()
			tt.setupRepo(t, repo)
			svc := NewAuthService(repo, issuer, zap.NewNop())

			before := time.Now().Truncate(time.Second)
			resp, err := svc.Login(context.Background(), tt.req)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, resp)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.NotErrorIs(t, err, ErrInvalidCredentials)
				}
				return
			}

			require.NoError(t, err)
			user := repo.users["jane@example.com"]
			assert.Equal(t, user.ID, resp.UserID)
			assert.Equal(t, user.FirstName, resp.FirstName)
			assert.Equal(t, user.LastName, resp.LastName)
			assert.Equal(t, user.ProfilePic, resp.ProfilePic)
			assert.Equal(t, user.Email, resp.Email)
			assert.WithinRange(t, resp.Expiration, before.Add(3*time.Hour), time.Now().Add(3*time.Hour))

			claims, err := issuer.Validate(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, "JaneDoe", claims.Subject)
			assert.NotEmpty(t, claims.ID)
			assert.Equal(t, tt.expectedRoles, claims.Roles)
			assert.True(t, resp.Expiration.Equal(claims.ExpiresAt.Time))
		})
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newMockUserRepository()
	repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
	svc := NewAuthService(repo, newTestTokenIssuer(), zap.NewNop())

	_, unknownErr := svc.Login(context.Background(), &models.LoginRequest{Email: "nobody@example.com", Password: "Password123!"})
	_, wrongErr := svc.Login(context.Background(), &models.LoginRequest{Email: "jane@example.com", Password: "Wrong123!"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_LoginIssuesFreshTokenIDs(t *testing.T) {
	repo := newMockUserRepository()
	repo.addUser(t, &models.User{ID: "user-1", Email: "jane@example.com", Username: "JaneDoe"}, "Password123!")
	issuer := newTestTokenIssuer()
	svc := NewAuthService(repo, issuer, zap.NewNop())
	req := &models.LoginRequest{Email: "jane@example.com", Password: "Password123!"}

	first, err := svc.Login(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), req)
	require.NoError(t, err)

	firstClaims, err := issuer.Validate(first.Token)
	require.NoError(t, err)
	secondClaims, err := issuer.Validate(second.Token)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
