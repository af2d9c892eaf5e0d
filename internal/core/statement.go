package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/edvin/sqlgate/internal/model"
)

// The builders below splice identifiers straight into statement text, so
// every database, table, and column name must pass the matching validator
// first. This is the injection gate; do not relax it.
var (
	identRe   = regexp.MustCompile(`^[a-z][a-z0-9_]{0,29}$`)
	columnRe  = regexp.MustCompile(`^[a-zA-Z0-9_]{1,64}$`)
	accountRe = regexp.MustCompile(`^[a-zA-Z0-9_]{1,32}$`)
	hostRe    = regexp.MustCompile(`^[a-zA-Z0-9%._-]+$`)
)

// allowedPrivileges is the set of grantable MySQL privileges.
var allowedPrivileges = map[string]bool{
	"ALL":                     true,
	"ALL PRIVILEGES":          true,
	"SELECT":                  true,
	"INSERT":                  true,
	"UPDATE":                  true,
	"DELETE":                  true,
	"CREATE":                  true,
	"DROP":                    true,
	"ALTER":                   true,
	"INDEX":                   true,
	"REFERENCES":              true,
	"CREATE VIEW":             true,
	"SHOW VIEW":               true,
	"TRIGGER":                 true,
	"EXECUTE":                 true,
	"CREATE ROUTINE":          true,
	"ALTER ROUTINE":           true,
	"EVENT":                   true,
	"LOCK TABLES":             true,
	"CREATE TEMPORARY TABLES": true,
}

// ValidateIdentifier checks a database or table name: lowercase letter
// first, then lowercase letters, digits, and underscores, at most 30
// characters.
func ValidateIdentifier(name string) error {
	if !identRe.MatchString(name) {
		return Validationf("invalid identifier %q: must start with a lowercase letter and contain only lowercase letters, digits, and underscores (max 30 characters)", name)
	}
	return nil
}

// ValidateColumnName checks a column name: alphanumeric and underscores
// only.
func ValidateColumnName(name string) error {
	if !columnRe.MatchString(name) {
		return Validationf("invalid column name %q: only alphanumeric characters and underscores allowed", name)
	}
	return nil
}

// ValidateAccountName checks a MySQL account name.
func ValidateAccountName(name string) error {
	if !accountRe.MatchString(name) {
		return Validationf("invalid username %q: only alphanumeric characters and underscores allowed (max 32 characters)", name)
	}
	return nil
}

// ValidateHost checks a MySQL host pattern: hostnames, IPv4 addresses, and
// the % wildcard.
func ValidateHost(host string) error {
	if !hostRe.MatchString(host) {
		return Validationf("invalid host %q", host)
	}
	return nil
}

// ValidatePrivileges checks each entry of a comma-separated privilege list
// against the MySQL grant allowlist.
func ValidatePrivileges(privileges string) error {
	for _, p := range strings.Split(privileges, ",") {
		upper := strings.ToUpper(strings.TrimSpace(p))
		if !allowedPrivileges[upper] {
			return Validationf("invalid privilege %q", strings.TrimSpace(p))
		}
	}
	return nil
}

func CreateDatabaseStatement(name string) string {
	return fmt.Sprintf("CREATE DATABASE `%s`", name)
}

func CreateTableStatement(dbName, tableName string, schema model.TableSchema) string {
	defs := make([]string, 0, len(schema))
	for _, col := range schema {
		defs = append(defs, fmt.Sprintf("`%s` %s", col.Name, col.Type))
	}
	return fmt.Sprintf("CREATE TABLE `%s`.`%s` (%s)", dbName, tableName, strings.Join(defs, ", "))
}

// UpsertStatement builds an INSERT that updates every listed column when
// the row already exists. Placeholders bind the values, one per column.
func UpsertStatement(dbName, tableName string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	updates := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("`%s`", col)
		placeholders[i] = "?"
		updates[i] = fmt.Sprintf("`%s` = VALUES(`%s`)", col, col)
	}
	return fmt.Sprintf("INSERT INTO `%s`.`%s` (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		dbName, tableName,
		strings.Join(quoted, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

// CreateUserStatement escapes the password so quotes and backslashes cannot
// terminate the string literal. Account names cannot be bound as
// placeholders, which is why the caller must validate them first.
func CreateUserStatement(username, host, password string) string {
	escaped := strings.ReplaceAll(password, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return fmt.Sprintf("CREATE USER '%s'@'%s' IDENTIFIED BY '%s'", username, host, escaped)
}

func GrantStatement(privileges, dbName, username, host string) string {
	return fmt.Sprintf("GRANT %s ON `%s`.* TO '%s'@'%s'", privileges, dbName, username, host)
}

func SelectAllStatement(dbName, tableName string) string {
	return fmt.Sprintf("SELECT * FROM `%s`.`%s`", dbName, tableName)
}

func DropTableStatement(dbName, tableName string) string {
	return fmt.Sprintf("DROP TABLE `%s`.`%s`", dbName, tableName)
}
