package database

import "time"

// Pool configuration defaults
const (
	DefaultMinConnections = 2
	DefaultMaxConnections = 10

	// DefaultConnectTimeout bounds the startup connect and ping.
	DefaultConnectTimeout = 10 * time.Second
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToRunMigrations   = "failed to run migrations"
)

// Log messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to database"
	LogMsgMigrationsApplied               = "Database migrations applied"
)
