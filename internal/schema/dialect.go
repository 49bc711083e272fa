package schema

import (
	"fmt"
	"strings"
	"time"
)

// TextColumnType is the only type given to caller-defined columns.
const TextColumnType = "VARCHAR(255)"

// Server holds the connection settings shared by every instance.
type Server struct {
	Host           string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// Dialect builds driver names, DSNs and statements for one database engine.
// Identifiers passed to the statement builders must already be validated.
type Dialect interface {
	Name() string
	DriverName() string
	DSN(srv Server, instance string) string
	Quote(ident string) string

	ListTables() (string, []any)
	ListColumns(table string) (string, []any)
	CreateTable(table string, columns []string) string
	DropTable(table string) string
	AddColumn(table, column string) string
	DropColumn(table, column string) string
}

// DialectFor returns the dialect registered for driver.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "mysql":
		return MySQL{}, nil
	case "postgres", "postgresql", "pgx":
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func columnDefinitions(d Dialect, columns []string) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, d.Quote(col)+" "+TextColumnType)
	}
	return strings.Join(defs, ", ")
}
