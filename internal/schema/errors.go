package schema

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ValidationError reports a missing or malformed request field. It is
// always detected before a connection is opened.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ForbiddenError is returned when an instance is outside the configured
// allow-list.
type ForbiddenError struct {
	Instance string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("database instance %q is not allowed", e.Instance)
}

// DatabaseError wraps any failure reported by the driver. Error returns the
// driver's message unchanged so it can be passed through to callers.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func dbError(op string, err error) error {
	var de *DatabaseError
	if errors.As(err, &de) {
		return err
	}
	return &DatabaseError{Op: op, Err: err}
}

// MySQLErrorNumber extracts the server error number from a MySQL driver
// error, e.g. 1050 for an existing table or 1051 for an unknown one.
func MySQLErrorNumber(err error) (uint16, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number, true
	}
	return 0, false
}
