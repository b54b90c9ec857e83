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

// PostgreSQLVersionRepository implements version stamp persistence for PostgreSQL.
type PostgreSQLVersionRepository struct {
	db *sql.DB
}

// Get returns the stored stamp of principalID for class.
func (p *PostgreSQLVersionRepository) Get(
	ctx context.Context,
	class authDomain.CredentialClass,
	principalID string,
) (string, error) {
	table, err := versionTable(class)
	if err != nil {
		return "", err
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT version FROM ` + table + ` WHERE principal_id = $1`

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
func (p *PostgreSQLVersionRepository) Set(
	ctx context.Context,
	class authDomain.CredentialClass,
	principalID, version string,
) error {
	table, err := versionTable(class)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO ` + table + ` (principal_id, version, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (principal_id) DO UPDATE
			  SET version = EXCLUDED.version, updated_at = EXCLUDED.updated_at`

	if _, err := querier.ExecContext(ctx, query, principalID, version, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to set version")
	}
	return nil
}

// SetAll upserts the stamps of principalID for every class in versions. The statements
// are atomic together only inside a transaction opened with database.TxManager.
func (p *PostgreSQLVersionRepository) SetAll(
	ctx context.Context,
	principalID string,
	versions map[authDomain.CredentialClass]string,
) error {
	classes, err := stampClasses(versions)
	if err != nil {
		return err
	}

	for _, class := range classes {
		if err := p.Set(ctx, class, principalID, versions[class]); err != nil {
			return err
		}
	}
	return nil
}

// NewPostgreSQLVersionRepository creates a new PostgreSQL version repository.
func NewPostgreSQLVersionRepository(db *sql.DB) *PostgreSQLVersionRepository {
	return &PostgreSQLVersionRepository{db: db}
}
