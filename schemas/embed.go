// Package schemas provides embedded SQL migration files, one directory per driver.
package schemas

import "embed"

// Migrations contains migrations/mysql and migrations/sqlite.
//
//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var Migrations embed.FS
