package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-admin/internal/config"
)

func TestBuildServer_LocalAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>tables</h1>"), 0o644))

	cfg := &config.Config{Driver: "mysql", Host: "db", Port: "3000", StaticDir: dir}
	srv, err := buildServer(context.Background(), cfg)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<h1>tables</h1>", rr.Body.String())
}

func TestBuildServer_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"unknown driver", config.Config{Driver: "oracle", Port: "3000", StaticDir: "public"}},
		{"bucket endpoint with path", config.Config{
			Driver:          "mysql",
			Port:            "3000",
			AssetsBucket:    "bundle",
			AssetsEndpoint:  "http://minio:9000/bundle",
			AssetsAccessKey: "minio",
			AssetsSecretKey: "minio123",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildServer(context.Background(), &tt.cfg)
			assert.Error(t, err)
		})
	}
}
