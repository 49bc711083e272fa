package schema

import (
	"net/url"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// Postgres maps each instance to a database and works in its current schema.
type Postgres struct{}

func (Postgres) Name() string       { return "postgres" }
func (Postgres) DriverName() string { return "pgx" }

func (Postgres) DSN(srv Server, instance string) string {
	q := url.Values{}
	if srv.SSLMode != "" {
		q.Set("sslmode", srv.SSLMode)
	}
	if secs := int(srv.ConnectTimeout.Seconds()); secs > 0 {
		q.Set("connect_timeout", strconv.Itoa(secs))
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     srv.Host,
		Path:     "/" + instance,
		RawQuery: q.Encode(),
	}
	if srv.User != "" {
		u.User = url.UserPassword(srv.User, srv.Password)
	}
	return u.String()
}

func (Postgres) Quote(ident string) string {
	return pq.QuoteIdentifier(ident)
}

func (Postgres) ListTables() (string, []any) {
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name`, nil
}

func (Postgres) ListColumns(table string) (string, []any) {
	return `SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`, []any{table}
}

func (p Postgres) CreateTable(table string, columns []string) string {
	return "CREATE TABLE " + p.Quote(table) +
		" (id SERIAL PRIMARY KEY, " + columnDefinitions(p, columns) + ")"
}

func (p Postgres) DropTable(table string) string {
	return "DROP TABLE " + p.Quote(table)
}

func (p Postgres) AddColumn(table, column string) string {
	return "ALTER TABLE " + p.Quote(table) + " ADD COLUMN " + p.Quote(column) + " " + TextColumnType
}

func (p Postgres) DropColumn(table, column string) string {
	return "ALTER TABLE " + p.Quote(table) + " DROP COLUMN " + p.Quote(column)
}
