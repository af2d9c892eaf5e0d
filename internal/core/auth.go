package core

import (
	"context"

	"github.com/edvin/sqlgate/internal/model"
)

// AuthService authenticates credentials and resolves bearer tokens to users.
type AuthService struct {
	users  *UserService
	tokens *TokenService
}

func NewAuthService(users *UserService, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Authenticate validates a username/password pair. An unknown username and
// a wrong password return the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !VerifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a bearer token for the user.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	return s.tokens.Issue(user.Username)
}

// CurrentUser resolves a bearer token to the user it was issued for. A
// token whose user has since been removed fails the same way a bad token
// does; storage faults surface as internal errors.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
