package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// mysqlNameRegex constrains database and table names: a lowercase letter
// followed by lowercase letters, digits, and underscores, 30 characters at
// most. Names passing this gate are safe to splice into statement text.
var mysqlNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,29}$`)

// mysqlHostRegex allows hostnames, IPv4 addresses, and the % wildcard.
var mysqlHostRegex = regexp.MustCompile(`^[a-zA-Z0-9%._-]+$`)

func init() {
	validate.RegisterValidation("mysql_name", func(fl validator.FieldLevel) bool {
		return mysqlNameRegex.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("mysql_host", func(fl validator.FieldLevel) bool {
		return mysqlHostRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// Name validates a database or table name taken from the URL path.
func Name(s string) (string, error) {
	if !mysqlNameRegex.MatchString(s) {
		return "", fmt.Errorf("invalid name %q: must start with a lowercase letter and contain only lowercase letters, digits, and underscores (max 30 characters)", s)
	}
	return s, nil
}
