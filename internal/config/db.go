package config

// Supported database engines.
const (
	// EngineSQLite runs on an embedded file database, the default for
	// a single-box deployment.
	EngineSQLite = "sqlite"
	// EngineMySQL connects to a MySQL server.
	EngineMySQL = "mysql"
	// EnginePostgres connects to a PostgreSQL server.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string
	// File is the database file path when GormEngine is sqlite.
	File string
}
