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

// MySQLAdminRepository implements Admin persistence for MySQL using BINARY(16) ids.
type MySQLAdminRepository struct {
	db *sql.DB
}

// Create inserts a new Admin. Returns ErrBusyUsername on a username conflict.
func (m *MySQLAdminRepository) Create(ctx context.Context, admin *adminDomain.Admin) error {
	querier := database.GetTx(ctx, m.db)

	id, err := admin.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal admin id")
	}

	query := `INSERT INTO admins (` + adminColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLAdminRepository) Update(ctx context.Context, admin *adminDomain.Admin) error {
	querier := database.GetTx(ctx, m.db)

	id, err := admin.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal admin id")
	}

	query := `UPDATE admins
			  SET username = ?,
			      password = ?,
			      updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, admin.Username, admin.Password, admin.UpdatedAt, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return adminDomain.ErrBusyUsername
		}
		return apperrors.Wrap(err, "failed to update admin")
	}
	return m.requireExists(ctx, result, id, "failed to update admin")
}

// UpdateRefreshTokenHash stores or clears (nil) the refresh token fingerprint.
func (m *MySQLAdminRepository) UpdateRefreshTokenHash(
	ctx context.Context,
	adminID uuid.UUID,
	hash *string,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := adminID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal admin id")
	}

	result, err := querier.ExecContext(ctx, `UPDATE admins SET refresh_token_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update refresh token hash")
	}
	return m.requireExists(ctx, result, id, "failed to update refresh token hash")
}

// Delete removes an Admin.
func (m *MySQLAdminRepository) Delete(ctx context.Context, adminID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := adminID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal admin id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM admins WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete admin")
	}
	return requireAffected(result, "failed to delete admin")
}

// Get retrieves an Admin by ID.
func (m *MySQLAdminRepository) Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := adminID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal admin id")
	}

	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = ?`

	return scanMySQLAdmin(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves an Admin by username.
func (m *MySQLAdminRepository) GetByUsername(ctx context.Context, username string) (*adminDomain.Admin, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = ?`

	return scanMySQLAdmin(querier.QueryRowContext(ctx, query, username))
}

// List returns admins newest first, optionally filtered by a username substring.
func (m *MySQLAdminRepository) List(
	ctx context.Context,
	filter adminDomain.ListFilter,
) ([]*adminDomain.Admin, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + adminColumns + `
			  FROM admins
			  WHERE username LIKE ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, likePattern(filter.Username), filter.Limit, filter.Offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list admins")
	}
	defer func() {
		_ = rows.Close()
	}()

	admins := make([]*adminDomain.Admin, 0)
	for rows.Next() {
		admin, err := scanMySQLAdmin(rows)
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

// requireExists treats zero affected rows as not found only when the row is really
// missing. MySQL reports zero affected rows when the new values equal the old ones.
func (m *MySQLAdminRepository) requireExists(
	ctx context.Context,
	result sql.Result,
	id []byte,
	message string,
) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected > 0 {
		return nil
	}

	querier := database.GetTx(ctx, m.db)
	var exists int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM admins WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return adminDomain.ErrAdminNotFound
		}
		return apperrors.Wrap(err, message)
	}
	return nil
}

func scanMySQLAdmin(row rowScanner) (*adminDomain.Admin, error) {
	var admin adminDomain.Admin
	var idBytes []byte
	var role string
	var refreshTokenHash sql.NullString

	err := row.Scan(
		&idBytes,
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

	if err := admin.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal admin id")
	}

	admin.Role = authDomain.Role(role)
	if refreshTokenHash.Valid {
		admin.RefreshTokenHash = &refreshTokenHash.String
	}
	return &admin, nil
}

// NewMySQLAdminRepository creates a new MySQL Admin repository.
func NewMySQLAdminRepository(db *sql.DB) *MySQLAdminRepository {
	return &MySQLAdminRepository{db: db}
}
