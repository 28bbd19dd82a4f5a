// Package db carries the SQL migrations, embedded so production builds can
// migrate without shipping the migrations directory alongside the binary.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
