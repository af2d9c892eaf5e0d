package core

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/sqlgate/internal/model"
)

func usersSchema() model.TableSchema {
	return model.TableSchema{
		{Name: "id", Type: "INT PRIMARY KEY"},
		{Name: "name", Type: "VARCHAR(100) NOT NULL"},
	}
}

func TestTableServiceCreate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectExec("CREATE TABLE `appdb`.`users` (`id` INT PRIMARY KEY, `name` VARCHAR(100) NOT NULL)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Create(context.Background(), "appdb", "users", usersSchema()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceCreate_AlreadyExists(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectExec("CREATE TABLE `appdb`.`users` (`id` INT PRIMARY KEY, `name` VARCHAR(100) NOT NULL)").
		WillReturnError(&mysql.MySQLError{Number: 1050, Message: "Table 'users' already exists"})

	err := svc.Create(context.Background(), "appdb", "users", usersSchema())
	require.Error(t, err)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
	assert.Equal(t, `Table "users" already exists in database "appdb"`, svcErr.Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceCreate_Validation(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	tests := []struct {
		name      string
		dbName    string
		tableName string
		schema    model.TableSchema
	}{
		{name: "bad database name", dbName: "App-DB", tableName: "users", schema: usersSchema()},
		{name: "bad table name", dbName: "appdb", tableName: "users; --", schema: usersSchema()},
		{name: "empty schema", dbName: "appdb", tableName: "users", schema: model.TableSchema{}},
		{
			name: "bad column name", dbName: "appdb", tableName: "users",
			schema: model.TableSchema{{Name: "id`); DROP TABLE users; --", Type: "INT"}},
		},
		{
			name: "empty column type", dbName: "appdb", tableName: "users",
			schema: model.TableSchema{{Name: "id", Type: "  "}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.dbName, tt.tableName, tt.schema)
			require.Error(t, err)

			var svcErr *Error
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, KindValidation, svcErr.Kind)
		})
	}

	// No statement may reach the server.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceInsertRows(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	// Column list comes from the first row's keys, sorted.
	upsert := UpsertStatement("appdb", "users", []string{"age", "id", "name"})

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(upsert)
	prep.ExpectExec().WithArgs(30, 1, "Alice").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(25, 2, "Bob").WillReturnResult(sqlmock.NewResult(0, 2))
	prep.ExpectExec().WithArgs(nil, 3, "Cara").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	added, updated, err := svc.InsertRows(context.Background(), "appdb", "users", []map[string]any{
		{"id": 1, "name": "Alice", "age": 30},
		{"id": 2, "name": "Bob", "age": 25},
		{"id": 3, "name": "Cara"}, // age omitted, binds NULL
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, updated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceInsertRows_TableMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	upsert := UpsertStatement("appdb", "ghosts", []string{"id"})

	mock.ExpectBegin()
	mock.ExpectPrepare(upsert).
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'appdb.ghosts' doesn't exist"})
	mock.ExpectRollback()

	_, _, err := svc.InsertRows(context.Background(), "appdb", "ghosts", []map[string]any{{"id": 1}})
	require.Error(t, err)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
	assert.Equal(t, `Table "ghosts" does not exist in database "appdb"`, svcErr.Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceInsertRows_MidBatchFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	upsert := UpsertStatement("appdb", "users", []string{"id", "name"})

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(upsert)
	prep.ExpectExec().WithArgs(1, "Alice").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(2, nil).WillReturnError(errors.New("Column 'name' cannot be null"))
	mock.ExpectRollback()

	added, updated, err := svc.InsertRows(context.Background(), "appdb", "users", []map[string]any{
		{"id": 1, "name": "Alice"},
		{"id": 2, "name": nil},
	})
	require.Error(t, err)
	assert.Zero(t, added)
	assert.Zero(t, updated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceInsertRows_Validation(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	t.Run("no rows", func(t *testing.T) {
		_, _, err := svc.InsertRows(context.Background(), "appdb", "users", nil)
		require.Error(t, err)

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, KindValidation, svcErr.Kind)
	})

	t.Run("bad column key", func(t *testing.T) {
		_, _, err := svc.InsertRows(context.Background(), "appdb", "users", []map[string]any{
			{"id`) SELECT 1; --": 1},
		})
		require.Error(t, err)

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, KindValidation, svcErr.Kind)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceFetch(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	// Values carry the types the MySQL driver produces: int64 for integer
	// columns, []byte for text.
	mock.ExpectQuery("SELECT * FROM `appdb`.`users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age"}).
			AddRow(int64(1), []byte("Alice"), int64(30)).
			AddRow(int64(2), []byte("Bob"), nil))

	columns, rows, err := svc.Fetch(context.Background(), "appdb", "users")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "age"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "Alice", "age": int64(30)}, rows[0])
	assert.Equal(t, map[string]any{"id": int64(2), "name": "Bob", "age": nil}, rows[1])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceFetch_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectQuery("SELECT * FROM `appdb`.`users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	columns, rows, err := svc.Fetch(context.Background(), "appdb", "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, columns)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceFetch_TableMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectQuery("SELECT * FROM `appdb`.`ghosts`").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'appdb.ghosts' doesn't exist"})

	_, _, err := svc.Fetch(context.Background(), "appdb", "ghosts")
	require.Error(t, err)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceDrop(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectExec("DROP TABLE `appdb`.`users`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Drop(context.Background(), "appdb", "users"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableServiceDrop_TableMissing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectExec("DROP TABLE `appdb`.`ghosts`").
		WillReturnError(&mysql.MySQLError{Number: 1051, Message: "Unknown table 'appdb.ghosts'"})

	err := svc.Drop(context.Background(), "appdb", "ghosts")
	require.Error(t, err)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
	assert.Equal(t, `Table "ghosts" does not exist in database "appdb"`, svcErr.Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}
