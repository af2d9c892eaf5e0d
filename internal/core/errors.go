package core

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Kind classifies a service failure so the transport layer can pick a
// status code without inspecting driver errors.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthenticationFailed
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindNotFound
)

// Error carries a classified failure with a client-safe message. Err, when
// set, is the underlying cause and is only for server-side logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidCredentials is returned for every credential failure so a caller
// cannot tell an unknown username from a wrong password.
var ErrInvalidCredentials = &Error{Kind: KindAuthenticationFailed, Message: "Invalid username or password"}

// ErrInvalidToken is returned for every bearer token failure so a caller
// cannot tell a tampered token from an expired one or a removed user.
var ErrInvalidToken = &Error{Kind: KindUnauthenticated, Message: "Invalid or missing token"}

// MySQL server error codes the services translate into client-facing
// conflicts and not-found errors. Everything else stays internal.
const (
	mysqlErrDBExists    = 1007 // ER_DB_CREATE_EXISTS
	mysqlErrTableExists = 1050 // ER_TABLE_EXISTS_ERROR
	mysqlErrBadTable    = 1051 // ER_BAD_TABLE_ERROR
	mysqlErrDupEntry    = 1062 // ER_DUP_ENTRY
	mysqlErrNoSuchTable = 1146 // ER_NO_SUCH_TABLE
)

// mysqlErrorNumber extracts the server error code from a driver error,
// or 0 when the error did not come from the MySQL server.
func mysqlErrorNumber(err error) uint16 {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}
