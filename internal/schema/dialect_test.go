package schema

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{driver: "", want: "mysql"},
		{driver: "mysql", want: "mysql"},
		{driver: "MySQL", want: "mysql"},
		{driver: "postgres", want: "postgres"},
		{driver: "pgx", want: "postgres"},
		{driver: "sqlite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := DialectFor(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestMySQL_Statements(t *testing.T) {
	d := MySQL{}

	query, args := d.ListTables()
	assert.Equal(t, "SHOW TABLES", query)
	assert.Empty(t, args)

	query, args = d.ListColumns("orders")
	assert.Equal(t, "SHOW COLUMNS FROM `orders`", query)
	assert.Empty(t, args)

	assert.Equal(t,
		"CREATE TABLE `people` (id INT AUTO_INCREMENT PRIMARY KEY, `a` VARCHAR(255), `b` VARCHAR(255))",
		d.CreateTable("people", []string{"a", "b"}))
	assert.Equal(t, "DROP TABLE `people`", d.DropTable("people"))
	assert.Equal(t, "ALTER TABLE `people` ADD COLUMN `c` VARCHAR(255)", d.AddColumn("people", "c"))
	assert.Equal(t, "ALTER TABLE `people` DROP COLUMN `c`", d.DropColumn("people", "c"))
	assert.Equal(t, "`we``ird`", d.Quote("we`ird"))
}

func TestMySQL_DSN(t *testing.T) {
	d := MySQL{}
	srv := Server{Host: "db.internal", User: "app", Password: "p@ss:word", ConnectTimeout: 5 * time.Second}

	cfg, err := mysql.ParseDSN(d.DSN(srv, "shop"))
	require.NoError(t, err)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.internal:3306", cfg.Addr)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "p@ss:word", cfg.Passwd)
	assert.Equal(t, "shop", cfg.DBName)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	srv.Host = "db.internal:3307"
	cfg, err = mysql.ParseDSN(d.DSN(srv, "shop"))
	require.NoError(t, err)
	assert.Equal(t, "db.internal:3307", cfg.Addr)
}

func TestPostgres_Statements(t *testing.T) {
	d := Postgres{}

	_, args := d.ListTables()
	assert.Empty(t, args)

	query, args := d.ListColumns("orders")
	assert.Contains(t, query, "information_schema.columns")
	assert.Contains(t, query, "ORDER BY ordinal_position")
	assert.Equal(t, []any{"orders"}, args)

	assert.Equal(t,
		`CREATE TABLE "people" (id SERIAL PRIMARY KEY, "a" VARCHAR(255))`,
		d.CreateTable("people", []string{"a"}))
	assert.Equal(t, `DROP TABLE "people"`, d.DropTable("people"))
	assert.Equal(t, `ALTER TABLE "people" ADD COLUMN "c" VARCHAR(255)`, d.AddColumn("people", "c"))
	assert.Equal(t, `ALTER TABLE "people" DROP COLUMN "c"`, d.DropColumn("people", "c"))
}

func TestPostgres_DSN(t *testing.T) {
	d := Postgres{}
	srv := Server{Host: "pg:5432", User: "app", Password: "secret", SSLMode: "disable", ConnectTimeout: 3 * time.Second}

	assert.Equal(t,
		"postgres://app:secret@pg:5432/shop?connect_timeout=3&sslmode=disable",
		d.DSN(srv, "shop"))

	assert.Equal(t, "postgres://pg:5432/shop", d.DSN(Server{Host: "pg:5432"}, "shop"))
}
