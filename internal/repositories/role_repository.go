package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/glocomx/auth-service/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// roleRepository implements RoleRepository
type roleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB, logger *zap.Logger) *roleRepository {
	return &roleRepository{
		db:     db,
		logger: logger,
	}
}

// Exists checks if a role with the given name exists
func (r *roleRepository) Exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM roles WHERE name = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, name).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check role existence", zap.Error(err), zap.String("role", name))
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new role. A role that already exists is not an error.
func (r *roleRepository) Create(ctx context.Context, name string) error {
	role := models.Role{ID: uuid.NewString(), Name: name}
	query := `INSERT INTO roles (id, name) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, role.ID, role.Name)
	if err != nil {
		// Created concurrently by another registration
		if isDuplicateEntry(err) {
			return nil
		}
		r.logger.Error("failed to create role", zap.Error(err), zap.String("role", name))
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}
