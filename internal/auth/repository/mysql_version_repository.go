package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// MySQLVersionRepository implements version stamp persistence for MySQL.
type MySQLVersionRepository struct {
	db *sql.DB
}

// Get returns the stored stamp of principalID for class.
func (m *MySQLVersionRepository) Get(
	ctx context.Context,
	class authDomain.CredentialClass,
	principalID string,
) (string, error) {
	table, err := versionTable(class)
	if err != nil {
		return "", err
	}

	querier := database.GetTx(ctx, m.db)

	query := `SELECT version FROM ` + table + ` WHERE principal_id = ?`

	var version string
	if err := querier.QueryRowContext(ctx, query, principalID).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", authDomain.ErrVersionNotFound
		}
		return "", apperrors.Wrap(err, "failed to get version")
	}
	return version, nil
}

// Set upserts the stamp of principalID for class.
func (m *MySQLVersionRepository) Set(
	ctx context.Context,
	class authDomain.CredentialClass,
	principalID, version string,
) error {
	table, err := versionTable(class)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO ` + table + ` (principal_id, version, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE version = VALUES(version), updated_at = VALUES(updated_at)`

	if _, err := querier.ExecContext(ctx, query, principalID, version, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to set version")
	}
	return nil
}

// SetAll upserts the stamps of principalID for every class in versions. The statements
// are atomic together only inside a transaction opened with database.TxManager.
func (m *MySQLVersionRepository) SetAll(
	ctx context.Context,
	principalID string,
	versions map[authDomain.CredentialClass]string,
) error {
	classes, err := stampClasses(versions)
	if err != nil {
		return err
	}

	for _, class := range classes {
		if err := m.Set(ctx, class, principalID, versions[class]); err != nil {
			return err
		}
	}
	return nil
}

// NewMySQLVersionRepository creates a new MySQL version repository.
func NewMySQLVersionRepository(db *sql.DB) *MySQLVersionRepository {
	return &MySQLVersionRepository{db: db}
}
