// Package migrations embeds the SQL schema for the target platform service.
//
// Importing this package registers the files with the database package so
// that DB.Migrate can apply them without the files present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/targetplatform/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
