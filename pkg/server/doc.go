// Package server wires the HTTP router, the storage layer and the
// extraction runner into a single server. Endpoint handlers live in
// the endpoints subpackage and register themselves against the Server.
package server
