package handler

import (
	"fmt"
	"net/http"

	"github.com/edvin/sqlgate/internal/api/request"
	"github.com/edvin/sqlgate/internal/api/response"
	"github.com/edvin/sqlgate/internal/core"
	"github.com/edvin/sqlgate/internal/model"
)

type Database struct {
	svc *core.DatabaseService
}

func NewDatabase(svc *core.DatabaseService) *Database {
	return &Database{svc: svc}
}

// Create godoc
//
//	@Summary		Create a database
//	@Description	Creates a MySQL database with the given name. The name must match the lowercase identifier format and is rejected before any SQL is built otherwise.
//	@Tags			Databases
//	@Security		BearerAuth
//	@Param			body	body		request.CreateDatabase	true	"Database name"
//	@Success		201		{object}	response.MessageResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		422		{object}	response.ErrorResponse
//	@Router			/create-database [post]
func (h *Database) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDatabase
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.svc.CreateDatabase(r.Context(), req.DBName); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteMessage(w, http.StatusCreated, fmt.Sprintf("Database %q created successfully", req.DBName))
}

// CreateUser godoc
//
//	@Summary		Create a database user
//	@Description	Creates a MySQL account and grants it privileges on the named database. If the account already exists the grant is re-applied instead, so repeating the request is safe. Host defaults to localhost and privileges default to SELECT.
//	@Tags			Databases
//	@Security		BearerAuth
//	@Param			body	body		request.CreateDatabaseUser	true	"Account and grant details"
//	@Success		201		{object}	response.MessageResponse
//	@Failure		422		{object}	response.ErrorResponse
//	@Router			/create-db-user [post]
func (h *Database) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDatabaseUser
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Host == "" {
		req.Host = "localhost"
	}
	if req.Privileges == "" {
		req.Privileges = "SELECT"
	}

	grant := &model.DatabaseUserGrant{
		Host:       req.Host,
		Username:   req.Username,
		Password:   req.Password,
		Privileges: req.Privileges,
		DBName:     req.DBName,
	}

	created, err := h.svc.CreateUser(r.Context(), grant)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	message := fmt.Sprintf("DB user %q created successfully", req.Username)
	if !created {
		message = fmt.Sprintf("DB user %q already exists", req.Username)
	}
	response.WriteMessage(w, http.StatusCreated, message)
}
