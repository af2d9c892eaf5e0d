package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/sqlgate/internal/api/request"
	"github.com/edvin/sqlgate/internal/api/response"
	"github.com/edvin/sqlgate/internal/core"
)

type Table struct {
	svc *core.TableService
}

func NewTable(svc *core.TableService) *Table {
	return &Table{svc: svc}
}

// Create godoc
//
//	@Summary		Create a table
//	@Description	Creates a table in the named database. Column definitions keep the order they appear in the request body.
//	@Tags			Tables
//	@Security		BearerAuth
//	@Param			body	body		request.CreateTable	true	"Table definition"
//	@Success		201		{object}	response.MessageResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		422		{object}	response.ErrorResponse
//	@Router			/create-table [post]
func (h *Table) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTable
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.svc.Create(r.Context(), req.DBName, req.TableName, req.TableSchema); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteMessage(w, http.StatusCreated,
		fmt.Sprintf("Table %q created successfully in database %q", req.TableName, req.DBName))
}

// Insert godoc
//
//	@Summary		Insert rows into a table
//	@Description	Upserts the given rows in a single transaction. Rows whose primary key already exists are updated in place; the response reports how many rows were added and how many were updated.
//	@Tags			Tables
//	@Security		BearerAuth
//	@Param			body	body		request.InsertData	true	"Rows to insert"
//	@Success		201		{object}	response.MessageResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Failure		422		{object}	response.ErrorResponse
//	@Router			/insert-data [post]
func (h *Table) Insert(w http.ResponseWriter, r *http.Request) {
	var req request.InsertData
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	added, updated, err := h.svc.InsertRows(r.Context(), req.DBName, req.TableName, req.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteMessage(w, http.StatusCreated,
		fmt.Sprintf("Data insertion completed for table %q in database %q: %d records added, %d records updated",
			req.TableName, req.DBName, added, updated))
}

// Fetch godoc
//
//	@Summary		Read a full table
//	@Description	Returns every row of the table along with the column order reported by the server. Available to any authenticated API user.
//	@Tags			Tables
//	@Security		BearerAuth
//	@Param			db_name		path		string	true	"Database name"
//	@Param			table_name	path		string	true	"Table name"
//	@Success		200			{object}	response.TableResponse
//	@Failure		404			{object}	response.ErrorResponse
//	@Failure		422			{object}	response.ErrorResponse
//	@Router			/get-table/{db_name}/{table_name} [get]
func (h *Table) Fetch(w http.ResponseWriter, r *http.Request) {
	dbName, err := request.Name(chi.URLParam(r, "db_name"))
	if err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tableName, err := request.Name(chi.URLParam(r, "table_name"))
	if err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	columns, data, err := h.svc.Fetch(r.Context(), dbName, tableName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.TableResponse{
		DBName:    dbName,
		TableName: tableName,
		Columns:   columns,
		Data:      data,
	})
}

// Drop godoc
//
//	@Summary		Delete a table
//	@Description	Drops the table from the named database.
//	@Tags			Tables
//	@Security		BearerAuth
//	@Param			db_name		path		string	true	"Database name"
//	@Param			table_name	path		string	true	"Table name"
//	@Success		200			{object}	response.MessageResponse
//	@Failure		404			{object}	response.ErrorResponse
//	@Failure		422			{object}	response.ErrorResponse
//	@Router			/delete-table/{db_name}/{table_name} [delete]
func (h *Table) Drop(w http.ResponseWriter, r *http.Request) {
	dbName, err := request.Name(chi.URLParam(r, "db_name"))
	if err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tableName, err := request.Name(chi.URLParam(r, "table_name"))
	if err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.svc.Drop(r.Context(), dbName, tableName); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteMessage(w, http.StatusOK,
		fmt.Sprintf("Table %q deleted successfully from database %q", tableName, dbName))
}
