package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "json", "info")

	l.Error("schema operation failed", map[string]interface{}{"op": "drop_table"}, errors.New("Error 1051: Unknown table 'shop.ghost'"))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, LogLevelError, entry.Level)
	assert.Equal(t, "schema operation failed", entry.Message)
	assert.Equal(t, "drop_table", entry.Fields["op"])
	assert.Equal(t, "Error 1051: Unknown table 'shop.ghost'", entry.Error)
	assert.NotEmpty(t, entry.Time)
}

func TestLogger_TextSortsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "text", "debug")

	l.Info("request", map[string]interface{}{"status": 200, "method": "GET", "bytes": 12})

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "[info] "), line)
	assert.True(t, strings.HasSuffix(line, "request bytes=12 method=GET status=200"), line)
}

func TestLogger_Threshold(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"debug", 4},
		{"info", 3},
		{"warn", 2},
		{"error", 1},
		{"verbose", 3},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(&buf, "text", tt.level)
			l.Debug("d", nil)
			l.Info("i", nil)
			l.Warn("w", nil)
			l.Error("e", nil, nil)
			assert.Equal(t, tt.want, strings.Count(buf.String(), "\n"))
		})
	}
}
