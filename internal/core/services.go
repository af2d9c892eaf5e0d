package core

import (
	"database/sql"
)

type Services struct {
	User     *UserService
	Auth     *AuthService
	Database *DatabaseService
	Table    *TableService
}

func NewServices(db *sql.DB, tokens *TokenService) *Services {
	users := NewUserService(db)
	return &Services{
		User:     users,
		Auth:     NewAuthService(users, tokens),
		Database: NewDatabaseService(db),
		Table:    NewTableService(db),
	}
}
