//go:build integration

// Round trip against a real MySQL server and a MinIO bucket started with
// dockertest. Requires Docker:
//
//	go test -tags integration -run TestIntegration ./internal/server
package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-admin/internal/schema"
	"table-admin/internal/server"
)

//go:embed testdata/migrations/*.sql
var migrations embed.FS

const (
	rootPassword = "secret"
	instance     = "shop"
	bucketName   = "bundle"
)

type table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

func startMySQL(t *testing.T, pool *dockertest.Pool) string {
	t.Helper()

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=" + rootPassword,
			"MYSQL_DATABASE=" + instance,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	require.NoError(t, err, "could not start mysql")
	t.Cleanup(func() { _ = pool.Purge(res) })

	host := "localhost:" + res.GetPort("3306/tcp")

	cfg := mysql.NewConfig()
	cfg.User = "root"
	cfg.Passwd = rootPassword
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = instance

	var db *sql.DB
	pool.MaxWait = 2 * time.Minute
	require.NoError(t, pool.Retry(func() error {
		var err error
		db, err = sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return err
		}
		return db.Ping()
	}), "mysql not ready")

	src, err := iofs.New(migrations, "testdata/migrations")
	require.NoError(t, err)
	drv, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithInstance("iofs", src, "mysql", drv)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	return host
}

func startMinIO(t *testing.T, pool *dockertest.Pool) string {
	t.Helper()

	tag := os.Getenv("TBL_MINIO_TEST_TAG")
	if tag == "" {
		tag = "RELEASE.2024-01-31T20-20-33Z"
	}
	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        tag,
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=minio",
			"MINIO_ROOT_PASSWORD=minio123",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	require.NoError(t, err, "could not start minio")
	t.Cleanup(func() { _ = pool.Purge(res) })

	endpoint := "localhost:" + res.GetPort("9000/tcp")
	require.NoError(t, pool.Retry(func() error {
		resp, err := http.Get("http://" + endpoint + "/minio/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio not ready: %d", resp.StatusCode)
		}
		return nil
	}), "minio not ready")

	ctx := context.Background()
	mc, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4("minio", "minio123", ""),
	})
	require.NoError(t, err)
	require.NoError(t, mc.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}))

	index, err := os.ReadFile("testdata/bundle/index.html")
	require.NoError(t, err)
	_, err = mc.PutObject(ctx, bucketName, "index.html", bytes.NewReader(index), int64(len(index)),
		minio.PutObjectOptions{ContentType: "text/html"})
	require.NoError(t, err)

	return endpoint
}

func call(t *testing.T, method, url string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func listTables(t *testing.T, base string) map[string][]string {
	t.Helper()

	status, body := call(t, http.MethodGet, base+"/api/tables?instance="+instance, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var tables []table
	require.NoError(t, json.Unmarshal(body, &tables))
	out := make(map[string][]string, len(tables))
	for _, tbl := range tables {
		out[tbl.Name] = tbl.Columns
	}
	return out
}

func TestIntegrationRoundTrip(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not connect to docker")

	dbHost := startMySQL(t, pool)
	assetsEndpoint := startMinIO(t, pool)

	assets, err := server.NewBucketAssets(context.Background(), "http://"+assetsEndpoint, "minio", "minio123", bucketName)
	require.NoError(t, err)

	conn := schema.NewConnector(schema.MySQL{}, schema.Server{
		Host:           dbHost,
		User:           "root",
		Password:       rootPassword,
		ConnectTimeout: 5 * time.Second,
	}, schema.WithMaxConnections(4))
	srv := server.New(server.Config{
		Addr:    ":0",
		Version: "integration",
		Manager: schema.NewManager(conn),
		Assets:  assets,
	})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	assert.Equal(t, []string{"id", "name", "email"}, listTables(t, ts.URL)["customers"])

	status, body := call(t, http.MethodPost, ts.URL+"/api/tables", map[string]any{
		"instance": instance, "tableName": "people", "columns": []string{"a", "b"},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"message":"Table created successfully"}`, string(body))
	assert.Equal(t, []string{"id", "a", "b"}, listTables(t, ts.URL)["people"])

	status, body = call(t, http.MethodPost, ts.URL+"/api/tables", map[string]any{
		"instance": instance, "tableName": "people", "columns": []string{"a"},
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(body), "already exists")

	column := map[string]string{"instance": instance, "tableName": "people", "columnName": "c"}
	status, body = call(t, http.MethodPost, ts.URL+"/api/columns", column)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, []string{"id", "a", "b", "c"}, listTables(t, ts.URL)["people"])

	column["columnName"] = "b"
	status, body = call(t, http.MethodDelete, ts.URL+"/api/columns", column)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, []string{"id", "a", "c"}, listTables(t, ts.URL)["people"])

	status, body = call(t, http.MethodDelete, ts.URL+"/api/tables/people?instance="+instance, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.NotContains(t, listTables(t, ts.URL), "people")

	status, body = call(t, http.MethodDelete, ts.URL+"/api/tables/people?instance="+instance, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(body), "Unknown table")

	status, body = call(t, http.MethodGet, ts.URL+"/api/tables?instance=nope", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(body), "Unknown database")

	status, body = call(t, http.MethodGet, ts.URL+"/api/tables", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Database instance is required"}`, string(body))

	status, body = call(t, http.MethodGet, ts.URL+"/some/client/route", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `<div id="app"></div>`)

	status, body = call(t, http.MethodGet, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, status, string(body))
	assert.Zero(t, conn.Stats().InUse)
}
