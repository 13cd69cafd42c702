package db

import "embed"

// MigrationsFS holds the SQL migration files embedded at compile time.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
