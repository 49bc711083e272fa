package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Required-field messages returned by each operation.
const (
	MsgInstanceRequired = "Database instance is required"
	MsgCreateRequired   = "Instance, table name, and columns are required"
	MsgDropRequired     = "Instance and table name are required"
	MsgColumnRequired   = "Instance, table name, and column name are required"
)

// Table describes one table and its column names in database order.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Manager runs schema operations. Every call opens its own connection and
// closes it before returning.
type Manager struct {
	conn *Connector
}

// NewManager creates a Manager backed by conn.
func NewManager(conn *Connector) *Manager {
	return &Manager{conn: conn}
}

// Connector returns the connector used by the manager.
func (m *Manager) Connector() *Connector {
	return m.conn
}

// ListTables returns every table in instance with its columns.
func (m *Manager) ListTables(ctx context.Context, instance string) ([]Table, error) {
	if instance == "" {
		return nil, &ValidationError{Message: MsgInstanceRequired}
	}
	if err := checkInstance(instance); err != nil {
		return nil, err
	}

	conn, err := m.conn.Open(ctx, instance)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	d := m.conn.Dialect()
	query, args := d.ListTables()
	names, err := firstColumn(ctx, conn, query, args...)
	if err != nil {
		return nil, dbError("list tables", err)
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		query, args := d.ListColumns(name)
		columns, err := firstColumn(ctx, conn, query, args...)
		if err != nil {
			return nil, dbError("list columns", err)
		}
		tables = append(tables, Table{Name: name, Columns: columns})
	}
	return tables, nil
}

// CreateTable creates table with an auto-incrementing id primary key followed
// by one text column per entry in columns.
func (m *Manager) CreateTable(ctx context.Context, instance, table string, columns []string) error {
	if instance == "" || table == "" || len(columns) == 0 {
		return &ValidationError{Message: MsgCreateRequired}
	}
	for _, col := range columns {
		if strings.TrimSpace(col) == "" {
			return &ValidationError{Message: MsgCreateRequired}
		}
	}
	if err := checkInstance(instance); err != nil {
		return err
	}
	if err := checkIdentifier("table", table); err != nil {
		return err
	}
	for _, col := range columns {
		if err := checkIdentifier("column", col); err != nil {
			return err
		}
	}

	return m.exec(ctx, "create table", instance, m.conn.Dialect().CreateTable(table, columns))
}

// DropTable drops table unconditionally.
func (m *Manager) DropTable(ctx context.Context, instance, table string) error {
	if instance == "" || table == "" {
		return &ValidationError{Message: MsgDropRequired}
	}
	if err := checkInstance(instance); err != nil {
		return err
	}
	if err := checkIdentifier("table", table); err != nil {
		return err
	}

	return m.exec(ctx, "drop table", instance, m.conn.Dialect().DropTable(table))
}

// AddColumn appends a text column to table.
func (m *Manager) AddColumn(ctx context.Context, instance, table, column string) error {
	if err := checkColumnRequest(instance, table, column); err != nil {
		return err
	}
	return m.exec(ctx, "add column", instance, m.conn.Dialect().AddColumn(table, column))
}

// DropColumn removes column from table. Constraint checks are left to the
// database engine.
func (m *Manager) DropColumn(ctx context.Context, instance, table, column string) error {
	if err := checkColumnRequest(instance, table, column); err != nil {
		return err
	}
	return m.exec(ctx, "drop column", instance, m.conn.Dialect().DropColumn(table, column))
}

func checkColumnRequest(instance, table, column string) error {
	if instance == "" || table == "" || column == "" {
		return &ValidationError{Message: MsgColumnRequired}
	}
	if err := checkInstance(instance); err != nil {
		return err
	}
	if err := checkIdentifier("table", table); err != nil {
		return err
	}
	return checkIdentifier("column", column)
}

func (m *Manager) exec(ctx context.Context, op, instance, stmt string) error {
	conn, err := m.conn.Open(ctx, instance)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return dbError(op, err)
	}
	return nil
}

// firstColumn returns the first column of every row. SHOW statements return
// several columns whose names vary by server, so values are scanned raw.
func firstColumn(ctx context.Context, conn *Conn, query string, args ...any) ([]string, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("query returned no columns: %s", query)
	}

	values := make([]sql.RawBytes, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	out := make([]string, 0)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, string(values[0]))
	}
	return out, rows.Err()
}
