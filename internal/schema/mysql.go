package schema

import (
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const mysqlDefaultPort = "3306"

// MySQL is the default dialect.
type MySQL struct{}

func (MySQL) Name() string       { return "mysql" }
func (MySQL) DriverName() string { return "mysql" }

func (MySQL) DSN(srv Server, instance string) string {
	cfg := mysql.NewConfig()
	cfg.User = srv.User
	cfg.Passwd = srv.Password
	cfg.Net = "tcp"
	cfg.Addr = mysqlAddr(srv.Host)
	cfg.DBName = instance
	cfg.Timeout = srv.ConnectTimeout
	return cfg.FormatDSN()
}

func mysqlAddr(host string) string {
	if host == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, mysqlDefaultPort)
}

func (MySQL) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (MySQL) ListTables() (string, []any) {
	return "SHOW TABLES", nil
}

func (m MySQL) ListColumns(table string) (string, []any) {
	return "SHOW COLUMNS FROM " + m.Quote(table), nil
}

func (m MySQL) CreateTable(table string, columns []string) string {
	return "CREATE TABLE " + m.Quote(table) +
		" (id INT AUTO_INCREMENT PRIMARY KEY, " + columnDefinitions(m, columns) + ")"
}

func (m MySQL) DropTable(table string) string {
	return "DROP TABLE " + m.Quote(table)
}

func (m MySQL) AddColumn(table, column string) string {
	return "ALTER TABLE " + m.Quote(table) + " ADD COLUMN " + m.Quote(column) + " " + TextColumnType
}

func (m MySQL) DropColumn(table, column string) string {
	return "ALTER TABLE " + m.Quote(table) + " DROP COLUMN " + m.Quote(column)
}
