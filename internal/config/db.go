package config

// DB holds the database configuration settings.
// The application persists to an embedded SQLite database file.
type DB struct {
	Path   string // filesystem path of the sqlite database file
	Extras string // extra connection parameters appended to the DSN
}
