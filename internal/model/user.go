package model

// User represents an account permitted to call the API.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
	IsAdmin        bool   `json:"is_admin"`
}
