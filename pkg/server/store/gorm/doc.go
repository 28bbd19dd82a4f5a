// Package gorm implements the store interfaces with GORM over
// PostgreSQL. Every query is scoped by organization ID.
package gorm
