package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/sqlgate/internal/core"
)

const findUserQuery = `SELECT id, username, hashed_password, is_admin FROM api_users WHERE username = ?`
const insertUserQuery = `INSERT INTO api_users (username, hashed_password, is_admin) VALUES (?, ?, ?)`

func newFormRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// --- Token ---

func TestAuthToken_ValidCredentials(t *testing.T) {
	services, mock := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	hash, err := core.HashPassword("secret123")
	require.NoError(t, err)
	mock.ExpectQuery(findUserQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "is_admin"}).
			AddRow(1, "alice", hash, true))

	rec := httptest.NewRecorder()
	r := newFormRequest("/get-token", url.Values{"username": {"alice"}, "password": {"secret123"}})

	h.Token(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthToken_WrongPassword(t *testing.T) {
	services, mock := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	hash, err := core.HashPassword("secret123")
	require.NoError(t, err)
	mock.ExpectQuery(findUserQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "is_admin"}).
			AddRow(1, "alice", hash, false))

	rec := httptest.NewRecorder()
	r := newFormRequest("/get-token", url.Values{"username": {"alice"}, "password": {"nope"}})

	h.Token(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid username or password", body["error"])
}

func TestAuthToken_UnknownUser(t *testing.T) {
	services, mock := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	mock.ExpectQuery(findUserQuery).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "is_admin"}))

	rec := httptest.NewRecorder()
	r := newFormRequest("/get-token", url.Values{"username": {"ghost"}, "password": {"whatever"}})

	h.Token(rec, r)

	// Unknown user and wrong password must be indistinguishable.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid username or password", body["error"])
}

func TestAuthToken_MissingFields(t *testing.T) {
	services, _ := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	for _, form := range []url.Values{
		{},
		{"username": {"alice"}},
		{"password": {"secret123"}},
	} {
		rec := httptest.NewRecorder()
		h.Token(rec, newFormRequest("/get-token", form))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(t, rec)
		assert.Contains(t, body["error"], "validation error")
	}
}

// --- Register ---

func TestAuthRegister_Valid(t *testing.T) {
	services, mock := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	mock.ExpectQuery(findUserQuery).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "is_admin"}))
	mock.ExpectExec(insertUserQuery).
		WithArgs("bob", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(7, 1))

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/register-api-user", map[string]any{
		"username": "bob",
		"password": "secret123",
	})

	h.Register(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "API user 'bob' created successfully", body["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRegister_Duplicate(t *testing.T) {
	services, mock := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	mock.ExpectQuery(findUserQuery).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "hashed_password", "is_admin"}).
			AddRow(7, "bob", "$2a$10$stub", false))

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/register-api-user", map[string]any{
		"username": "bob",
		"password": "secret123",
	})

	h.Register(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "already registered")
}

func TestAuthRegister_InvalidJSON(t *testing.T) {
	services, _ := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	rec := httptest.NewRecorder()
	h.Register(rec, newRequestRaw(http.MethodPost, "/register-api-user", "{bad json"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestAuthRegister_MissingPassword(t *testing.T) {
	services, _ := newTestServices(t)
	h := NewAuth(services.Auth, services.User)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/register-api-user", map[string]any{
		"username": "bob",
	})

	h.Register(rec, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "validation error")
}
