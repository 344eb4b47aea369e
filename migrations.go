package press

import (
	"embed"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded catalog migrations so host applications
// can run them through their own migration tooling instead of the built-in
// table bootstrap.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
