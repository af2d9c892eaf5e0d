package request

type CreateDatabase struct {
	DBName string `json:"db_name" validate:"required,mysql_name"`
}
