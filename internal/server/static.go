package server

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// indexFile is served for every path the front-end bundle lacks.
const indexFile = "index.html"

// ErrAssetNotFound is returned by an AssetStore for missing files.
var ErrAssetNotFound = errors.New("asset not found")

// AssetStore provides the front-end bundle. Names are slash separated and
// relative to the bundle root.
type AssetStore interface {
	Open(ctx context.Context, name string) (io.ReadSeekCloser, time.Time, error)
}

// DirAssets serves the bundle from a local directory.
type DirAssets struct {
	root http.Dir
}

// NewDirAssets creates an AssetStore rooted at dir.
func NewDirAssets(dir string) *DirAssets {
	return &DirAssets{root: http.Dir(dir)}
}

func (d *DirAssets) Open(_ context.Context, name string) (io.ReadSeekCloser, time.Time, error) {
	f, err := d.root.Open("/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, time.Time{}, ErrAssetNotFound
		}
		return nil, time.Time{}, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, time.Time{}, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, time.Time{}, ErrAssetNotFound
	}
	return f, info.ModTime(), nil
}

// handleStatic serves a bundle file when one matches the path and the entry
// file otherwise, for any method.
func (s *Server) handleStatic() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.assets == nil {
			http.NotFound(w, r)
			return
		}

		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = indexFile
		}

		content, modTime, err := s.assets.Open(r.Context(), name)
		if errors.Is(err, ErrAssetNotFound) && name != indexFile {
			name = indexFile
			content, modTime, err = s.assets.Open(r.Context(), name)
		}
		if err != nil {
			if errors.Is(err, ErrAssetNotFound) {
				http.NotFound(w, r)
				return
			}
			Error("static asset unavailable", map[string]interface{}{
				"request_id": RequestIDFromContext(r.Context()),
				"asset":      name,
			}, err)
			http.Error(w, "asset unavailable", http.StatusInternalServerError)
			return
		}
		defer func() { _ = content.Close() }()

		http.ServeContent(w, r, name, modTime, content)
	}
}
