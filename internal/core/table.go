package core

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/edvin/sqlgate/internal/model"
)

// TableService runs table DDL and row-level reads and writes.
type TableService struct {
	db *sql.DB
}

func NewTableService(db *sql.DB) *TableService {
	return &TableService{db: db}
}

func (s *TableService) Create(ctx context.Context, dbName, tableName string, schema model.TableSchema) error {
	if err := ValidateIdentifier(dbName); err != nil {
		return err
	}
	if err := ValidateIdentifier(tableName); err != nil {
		return err
	}
	if len(schema) == 0 {
		return Validationf("table schema must define at least one column")
	}
	for _, col := range schema {
		if err := ValidateColumnName(col.Name); err != nil {
			return err
		}
		if strings.TrimSpace(col.Type) == "" {
			return Validationf("column %q has an empty type", col.Name)
		}
	}

	if _, err := s.db.ExecContext(ctx, CreateTableStatement(dbName, tableName, schema)); err != nil {
		if mysqlErrorNumber(err) == mysqlErrTableExists {
			return Conflictf("Table %q already exists in database %q", tableName, dbName)
		}
		return fmt.Errorf("create table %s.%s: %w", dbName, tableName, err)
	}
	return nil
}

// InsertRows upserts rows one at a time in input order and reports how many
// were inserted versus updated. The batch commits as a whole; a failure
// partway through rolls back every prior row.
//
// The first row's keys define the column list. Later rows reuse it and bind
// NULL for any key they omit.
func (s *TableService) InsertRows(ctx context.Context, dbName, tableName string, rows []map[string]any) (int, int, error) {
	if err := ValidateIdentifier(dbName); err != nil {
		return 0, 0, err
	}
	if err := ValidateIdentifier(tableName); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, Validationf("data must contain at least one row")
	}

	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		if err := ValidateColumnName(col); err != nil {
			return 0, 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, UpsertStatement(dbName, tableName, columns))
	if err != nil {
		if mysqlErrorNumber(err) == mysqlErrNoSuchTable {
			return 0, 0, NotFoundf("Table %q does not exist in database %q", tableName, dbName)
		}
		return 0, 0, fmt.Errorf("prepare insert into %s.%s: %w", dbName, tableName, err)
	}
	defer stmt.Close()

	var added, updated int
	for _, row := range rows {
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = row[col]
		}

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			if mysqlErrorNumber(err) == mysqlErrNoSuchTable {
				return 0, 0, NotFoundf("Table %q does not exist in database %q", tableName, dbName)
			}
			return 0, 0, fmt.Errorf("insert row into %s.%s: %w", dbName, tableName, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("rows affected: %w", err)
		}
		// MySQL reports 1 for a fresh insert, 2 for an upsert-triggered
		// update, and 0 when the row already matched.
		if affected == 1 {
			added++
		} else {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return added, updated, nil
}

// Fetch returns every row of the table plus the column order the server
// reported.
func (s *TableService) Fetch(ctx context.Context, dbName, tableName string) ([]string, []map[string]any, error) {
	if err := ValidateIdentifier(dbName); err != nil {
		return nil, nil, err
	}
	if err := ValidateIdentifier(tableName); err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, SelectAllStatement(dbName, tableName))
	if err != nil {
		if mysqlErrorNumber(err) == mysqlErrNoSuchTable {
			return nil, nil, NotFoundf("Table %q does not exist in database %q", tableName, dbName)
		}
		return nil, nil, fmt.Errorf("fetch table %s.%s: %w", dbName, tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns of %s.%s: %w", dbName, tableName, err)
	}

	data := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, fmt.Errorf("scan row of %s.%s: %w", dbName, tableName, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// The driver hands text and decimal cells back as []byte.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows of %s.%s: %w", dbName, tableName, err)
	}
	return columns, data, nil
}

func (s *TableService) Drop(ctx context.Context, dbName, tableName string) error {
	if err := ValidateIdentifier(dbName); err != nil {
		return err
	}
	if err := ValidateIdentifier(tableName); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, DropTableStatement(dbName, tableName)); err != nil {
		switch mysqlErrorNumber(err) {
		case mysqlErrBadTable, mysqlErrNoSuchTable:
			return NotFoundf("Table %q does not exist in database %q", tableName, dbName)
		}
		return fmt.Errorf("drop table %s.%s: %w", dbName, tableName, err)
	}
	return nil
}
