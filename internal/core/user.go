package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edvin/sqlgate/internal/model"
)

// UserService manages the api_users account directory.
type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// FindByUsername returns the user with the given username, or nil when no
// such user exists. A nil result is a normal outcome, not an error.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, hashed_password, is_admin FROM api_users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.HashedPassword, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find api user %s: %w", username, err)
	}
	return &u, nil
}

// Register hashes the password and stores a new API user.
func (s *UserService) Register(ctx context.Context, username, password string, isAdmin bool) (*model.User, error) {
	existing, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflictf("API user '%s' already registered", username)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO api_users (username, hashed_password, is_admin) VALUES (?, ?, ?)`,
		username, hash, isAdmin,
	)
	if err != nil {
		// Two concurrent registrations can both pass the lookup; the
		// unique index settles it.
		if mysqlErrorNumber(err) == mysqlErrDupEntry {
			return nil, Conflictf("API user '%s' already registered", username)
		}
		return nil, fmt.Errorf("insert api user %s: %w", username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id for api user %s: %w", username, err)
	}

	return &model.User{ID: id, Username: username, HashedPassword: hash, IsAdmin: isAdmin}, nil
}

// EnsureAdmin creates the bootstrap admin account unless it already exists.
// It reports whether a new account was created. Losing a creation race to
// another instance counts as the account existing.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if _, err := s.Register(ctx, username, password, true); err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) && svcErr.Kind == KindConflict {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
