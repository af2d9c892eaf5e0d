package request

type RegisterUser struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=100"`
	IsAdmin  bool   `json:"is_admin"`
}
