// Package repository implements admin persistence for PostgreSQL and MySQL.
//
// PostgreSQL uses native UUID types, MySQL uses BINARY(16). Both honor the ambient
// transaction via database.GetTx() so fingerprint updates commit together with version
// rotations.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

const adminColumns = `id, username, password, role, refresh_token_hash, created_at, updated_at`

// PostgreSQLAdminRepository implements Admin persistence for PostgreSQL.
type PostgreSQLAdminRepository struct {
	db *sql.DB
}

// Create inserts a new Admin. Returns ErrBusyUsername on a username conflict.
func (p *PostgreSQLAdminRepository) Create(ctx context.Context, admin *adminDomain.Admin) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO admins (` + adminColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		admin.ID,
		admin.Username,
		admin.Password,
		string(admin.Role),
		admin.RefreshTokenHash,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return adminDomain.ErrBusyUsername
		}
		return apperrors.Wrap(err, "failed to create admin")
	}
	return nil
}

// Update writes username, password and updated_at of an existing Admin.
func (p *PostgreSQLAdminRepository) Update(ctx context.Context, admin *adminDomain.Admin) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE admins
			  SET username = $1,
			      password = $2,
			      updated_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, admin.Username, admin.Password, admin.UpdatedAt, admin.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return adminDomain.ErrBusyUsername
		}
		return apperrors.Wrap(err, "failed to update admin")
	}
	return requireAffected(result, "failed to update admin")
}

// UpdateRefreshTokenHash stores or clears (nil) the refresh token fingerprint.
func (p *PostgreSQLAdminRepository) UpdateRefreshTokenHash(
	ctx context.Context,
	adminID uuid.UUID,
	hash *string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE admins SET refresh_token_hash = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, hash, adminID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update refresh token hash")
	}
	return requireAffected(result, "failed to update refresh token hash")
}

// Delete removes an Admin.
func (p *PostgreSQLAdminRepository) Delete(ctx context.Context, adminID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, adminID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete admin")
	}
	return requireAffected(result, "failed to delete admin")
}

// Get retrieves an Admin by ID.
func (p *PostgreSQLAdminRepository) Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	return scanPostgreSQLAdmin(querier.QueryRowContext(ctx, query, adminID))
}

// GetByUsername retrieves an Admin by username.
func (p *PostgreSQLAdminRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*adminDomain.Admin, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = $1`

	return scanPostgreSQLAdmin(querier.QueryRowContext(ctx, query, username))
}

// List returns admins newest first, optionally filtered by a username substring.
func (p *PostgreSQLAdminRepository) List(
	ctx context.Context,
	filter adminDomain.ListFilter,
) ([]*adminDomain.Admin, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + adminColumns + `
			  FROM admins
			  WHERE username LIKE $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, likePattern(filter.Username), filter.Limit, filter.Offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list admins")
	}
	defer func() {
		_ = rows.Close()
	}()

	admins := make([]*adminDomain.Admin, 0)
	for rows.Next() {
		admin, err := scanPostgreSQLAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate admins")
	}

	return admins, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLAdmin(row rowScanner) (*adminDomain.Admin, error) {
	var admin adminDomain.Admin
	var role string
	var refreshTokenHash sql.NullString

	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Password,
		&role,
		&refreshTokenHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, adminDomain.ErrAdminNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get admin")
	}

	admin.Role = authDomain.Role(role)
	if refreshTokenHash.Valid {
		admin.RefreshTokenHash = &refreshTokenHash.String
	}
	return &admin, nil
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return adminDomain.ErrAdminNotFound
	}
	return nil
}

// likePattern turns a substring filter into a LIKE pattern with wildcards escaped.
func likePattern(substring string) string {
	escaped := make([]rune, 0, len(substring)+2)
	escaped = append(escaped, '%')
	for _, r := range substring {
		if r == '%' || r == '_' || r == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	escaped = append(escaped, '%')
	return string(escaped)
}

// NewPostgreSQLAdminRepository creates a new PostgreSQL Admin repository.
func NewPostgreSQLAdminRepository(db *sql.DB) *PostgreSQLAdminRepository {
	return &PostgreSQLAdminRepository{db: db}
}
