package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/glocomx/auth-service/internal/models"
	"github.com/glocomx/auth-service/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleRepository is the interface that wraps methods for Role table data access
type RoleRepository interface {
	// Method Exists checks if a role with such name exists.
	Exists(ctx context.Context, name string) (bool, error)
	// Method Create inserts a new role.
	//
	// Creating a role that already exists is not an error.
	Create(ctx context.Context, name string) error
}

// ProfilePicStorage is the interface that wraps methods for profile picture persistence
type ProfilePicStorage interface {
	// Method Save stores the content under a name derived from declaredName and returns its relative reference.
	//
	// An existing file is never overwritten, storage.ErrFileExists is returned instead.
	Save(declaredName string, src io.Reader) (string, error)
	// Method Delete removes a file previously returned by Save.
	Delete(ref string) error
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordRegex validates password: at least 8 chars, uppercase, lowercase, number, special
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[0-9]`),
	regexp.MustCompile(`[^a-zA-Z0-9]`),
}

// maxPasswordBytes is the longest password bcrypt can hash
const maxPasswordBytes = 72

// registrationService implements RegistrationService
type registrationService struct {
	userRepo UserRepository
	roleRepo RoleRepository
	storage  ProfilePicStorage
	logger   *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	picStorage ProfilePicStorage,
	logger *zap.Logger,
) *registrationService {
	return &registrationService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		storage:  picStorage,
		logger:   logger,
	}
}

// Register creates a new user account.
//
// Steps run strictly in order: uniqueness check, profile picture upload, role provisioning, account creation.
// Once the picture is stored, any later failure deletes it again so no orphan file is left behind.
func (s *registrationService) Register(ctx context.Context, req *models.RegisterRequest, upload *models.Upload) error {
	email := strings.TrimSpace(req.Email)
	role := strings.TrimSpace(req.Role)
	if err := checkRegisterRequest(email, req.Password, role); err != nil {
		return err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return ErrDuplicateUser
	}

	if upload != nil && upload.Size == 0 {
		return ErrEmptyUpload
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var profilePic string
	if upload != nil {
		profilePic, err = s.saveProfilePic(upload)
		if err != nil {
			return err
		}
	}

	roles := s.provisionRole(ctx, role)

	if err := ctx.Err(); err != nil {
		s.discardProfilePic(profilePic)
		return err
	}

	user := &models.User{
		Email:         email,
		SecurityStamp: uuid.NewString(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Username:      req.FirstName + req.LastName,
		ProfilePic:    profilePic,
	}

	if err := s.userRepo.Create(ctx, user, req.Password, roles); err != nil {
		s.discardProfilePic(profilePic)
		if errors.Is(err, models.ErrDuplicateEmail) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("%w: %w", ErrAccountCreationFailed, err)
	}

	s.logger.Info("user registered",
		zap.String("userId", user.ID),
		zap.Strings("roles", roles),
		zap.Bool("profilePic", profilePic != ""),
	)

	return nil
}

// saveProfilePic stores the upload and maps storage errors to registration errors
func (s *registrationService) saveProfilePic(upload *models.Upload) (string, error) {
	ref, err := s.storage.Save(upload.Filename, upload.Content)
	switch {
	case err == nil:
		return ref, nil
	case errors.Is(err, storage.ErrEmptyFile):
		return "", ErrEmptyUpload
	case errors.Is(err, storage.ErrInvalidFileName):
		return "", ErrInvalidFileName
	case errors.Is(err, storage.ErrFileExists):
		return "", ErrUploadConflict
	default:
		return "", fmt.Errorf("%w: %w", ErrFileIO, err)
	}
}

// discardProfilePic removes a stored picture whose account was not created
func (s *registrationService) discardProfilePic(ref string) {
	if ref == "" {
		return
	}
	if err := s.storage.Delete(ref); err != nil {
		s.logger.Error("failed to delete orphaned profile picture", zap.String("path", ref), zap.Error(err))
	}
}

// provisionRole makes sure the role exists and returns the roles the new user should be linked to.
// Failures are logged and the user is registered without the role.
func (s *registrationService) provisionRole(ctx context.Context, role string) []string {
	exists, err := s.roleRepo.Exists(ctx, role)
	if err != nil {
		s.logger.Warn("failed to check role, registering user without it", zap.String("role", role), zap.Error(err))
		return nil
	}

	if !exists {
		if err := s.roleRepo.Create(ctx, role); err != nil {
			s.logger.Warn("failed to create role, registering user without it", zap.String("role", role), zap.Error(err))
			return nil
		}
		s.logger.Info("role created", zap.String("role", role))
	}

	return []string{role}
}

// checkRegisterRequest validates the registration fields before any side effect happens
func checkRegisterRequest(email, password, role string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidRegistration)
	}

	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes long", ErrInvalidRegistration, maxPasswordBytes)
	}
	for _, regex := range passwordRegex {
		if !regex.MatchString(password) {
			return fmt.Errorf("%w: password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character", ErrInvalidRegistration)
		}
	}

	if role == "" {
		return fmt.Errorf("%w: role cannot be empty", ErrInvalidRegistration)
	}

	return nil
}
