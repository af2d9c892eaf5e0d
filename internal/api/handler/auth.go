package handler

import (
	"fmt"
	"net/http"

	"github.com/edvin/sqlgate/internal/api/request"
	"github.com/edvin/sqlgate/internal/api/response"
	"github.com/edvin/sqlgate/internal/core"
)

type Auth struct {
	authSvc *core.AuthService
	userSvc *core.UserService
}

func NewAuth(authSvc *core.AuthService, userSvc *core.UserService) *Auth {
	return &Auth{authSvc: authSvc, userSvc: userSvc}
}

// Token godoc
//
//	@Summary		Issue a bearer token
//	@Description	Exchanges form-encoded credentials for a signed bearer token. The response never reveals whether the username or the password was wrong.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			username	formData	string	true	"API username"
//	@Param			password	formData	string	true	"API password"
//	@Success		200	{object}	response.TokenResponse
//	@Failure		401	{object}	response.ErrorResponse
//	@Router			/get-token [post]
func (h *Auth) Token(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		response.WriteError(w, http.StatusUnprocessableEntity, "validation error: username and password are required")
		return
	}

	user, err := h.authSvc.Authenticate(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.authSvc.IssueToken(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Register godoc
//
//	@Summary		Register an API user
//	@Description	Creates a new API user with a bcrypt-hashed password. Only admins can register users, including further admins.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Param			body	body		request.RegisterUser	true	"User details"
//	@Success		201		{object}	response.MessageResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		422		{object}	response.ErrorResponse
//	@Router			/register-api-user [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUser
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.userSvc.Register(r.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteMessage(w, http.StatusCreated, fmt.Sprintf("API user '%s' created successfully", user.Username))
}
