package backend

// Type selects a record store backend.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
	Mongo  Type = "mongo"
)

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Mongo specific
	MongoURI      string
	MongoDatabase string
}
