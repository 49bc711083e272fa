// Package server implements the HTTP API for table and column management.
// It wires the routes, middleware and front-end asset handling around a
// schema.Manager and provides lifecycle helpers used by tests and the
// production binary.
package server
