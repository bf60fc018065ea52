// assets/embed.go
//
// Embedded SQL migrations, applied in lexical order by store.Migrate.

package assets

import "embed"

//go:embed sql/*.sql
var FS embed.FS

// MigrationsDir is the directory inside FS holding the *.sql files.
const MigrationsDir = "sql"
