// Package schema translates table and column management requests into
// statements for the selected database dialect and runs them over a
// connection opened for the duration of a single operation.
package schema
