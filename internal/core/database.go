package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edvin/sqlgate/internal/model"
)

// DatabaseService creates databases and database-level user accounts.
type DatabaseService struct {
	db *sql.DB
}

func NewDatabaseService(db *sql.DB) *DatabaseService {
	return &DatabaseService{db: db}
}

func (s *DatabaseService) CreateDatabase(ctx context.Context, name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, CreateDatabaseStatement(name)); err != nil {
		if mysqlErrorNumber(err) == mysqlErrDBExists {
			return Conflictf("Database %q already exists", name)
		}
		return fmt.Errorf("create database %s: %w", name, err)
	}
	return nil
}

// CreateUser creates a MySQL account unless it already exists, then applies
// the requested grant either way, so repeating a request converges on the
// same privilege set. It reports whether the account was created.
func (s *DatabaseService) CreateUser(ctx context.Context, grant *model.DatabaseUserGrant) (bool, error) {
	if err := ValidateAccountName(grant.Username); err != nil {
		return false, err
	}
	if err := ValidateHost(grant.Host); err != nil {
		return false, err
	}
	if err := ValidateIdentifier(grant.DBName); err != nil {
		return false, err
	}
	if err := ValidatePrivileges(grant.Privileges); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := false
	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM mysql.user WHERE User = ? AND Host = ?`,
		grant.Username, grant.Host,
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, CreateUserStatement(grant.Username, grant.Host, grant.Password)); err != nil {
			return false, fmt.Errorf("create db user %s: %w", grant.Username, err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("check db user %s: %w", grant.Username, err)
	}

	if _, err := tx.ExecContext(ctx, GrantStatement(grant.Privileges, grant.DBName, grant.Username, grant.Host)); err != nil {
		return false, fmt.Errorf("grant privileges to %s: %w", grant.Username, err)
	}
	if _, err := tx.ExecContext(ctx, `FLUSH PRIVILEGES`); err != nil {
		return false, fmt.Errorf("flush privileges: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}
