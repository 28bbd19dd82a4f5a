// Package store defines the storage interfaces used by the API
// endpoints. Implementations live in the gorm subpackage; tests use
// testify mocks generated against these interfaces.
package store
