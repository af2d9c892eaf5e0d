package request

import "github.com/edvin/sqlgate/internal/model"

type CreateTable struct {
	DBName      string            `json:"db_name" validate:"required,mysql_name"`
	TableName   string            `json:"table_name" validate:"required,mysql_name"`
	TableSchema model.TableSchema `json:"table_schema" validate:"required,min=1"`
}

type InsertData struct {
	DBName    string           `json:"db_name" validate:"required,mysql_name"`
	TableName string           `json:"table_name" validate:"required,mysql_name"`
	Data      []map[string]any `json:"data" validate:"required,min=1"`
}
