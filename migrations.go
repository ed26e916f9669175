package botmarket

import "embed"

//go:embed migrations
var MigrationsFS embed.FS
