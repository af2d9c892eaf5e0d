package request

// CreateDatabaseUser carries the grant to apply. Host defaults to
// "localhost" and Privileges to "SELECT" when omitted.
type CreateDatabaseUser struct {
	Host       string `json:"host" validate:"omitempty,mysql_host,max=255"`
	Username   string `json:"username" validate:"required,max=32"`
	Password   string `json:"password" validate:"required,max=100"`
	Privileges string `json:"privileges" validate:"omitempty,max=100"`
	DBName     string `json:"db_name" validate:"required,mysql_name"`
}
