package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/glocomx/auth-service/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// userRepository implements UserRepository
type userRepository struct {
	db         *sql.DB
	logger     *zap.Logger
	bcryptCost int
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:         db,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Create hashes the password and inserts the user together with its role links in one transaction.
// Every role in roles must already exist.
func (r *userRepository) Create(ctx context.Context, user *models.User, password string, roles []string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (id, email, username, password_hash, security_stamp, first_name, last_name, profile_pic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	profilePic := sql.NullString{String: user.ProfilePic, Valid: user.ProfilePic != ""}
	_, err = tx.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, string(passwordHash), user.SecurityStamp,
		user.FirstName, user.LastName, profilePic,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrDuplicateEmail
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	linkQuery := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT ?, id FROM roles WHERE name = ?
	`
	for _, role := range roles {
		result, err := tx.ExecContext(ctx, linkQuery, user.ID, role)
		if err != nil {
			r.logger.Error("failed to add user to role", zap.Error(err), zap.String("role", role))
			return fmt.Errorf("failed to add user to role %q: %w", role, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("failed to add user to role %q: role not found", role)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit user creation", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, security_stamp, first_name, last_name, profile_pic, created_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user := &models.User{}
	var profilePic sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.SecurityStamp,
		&user.FirstName,
		&user.LastName,
		&profilePic,
		&user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.ProfilePic = profilePic.String
	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// GetRoles returns the names of the roles the user belongs to
func (r *userRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT r.name
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY r.name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to get user roles", zap.Error(err), zap.String("userId", userID))
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	return roles, nil
}
