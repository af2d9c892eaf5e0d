package model

// DatabaseUserGrant describes a MySQL-level user and the privileges it
// should hold on one database. Privileges is a comma-separated list such
// as "SELECT" or "SELECT, INSERT".
type DatabaseUserGrant struct {
	Host       string `json:"host"`
	Username   string `json:"username"`
	Password   string `json:"-"`
	Privileges string `json:"privileges"`
	DBName     string `json:"db_name"`
}
