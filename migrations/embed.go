// Package migrations embeds SQL migration files into the binary, so the
// server can migrate its schema without the SQL files present on disk.
package migrations

import (
	"embed"

	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files are at root of embedded FS
}
