package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newBuildDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html>app</html>")
	writeFile(t, root, "assets/app-3f2a.js", "console.log(1)")
	writeFile(t, root, "assets/app-3f2a.css", "body{}")
	writeFile(t, root, "docs/index.html", "<html>docs</html>")
	return root
}

func TestSPAHandler(t *testing.T) {
	h := NewSPAHandler(newBuildDir(t))

	tests := []struct {
		name      string
		path      string
		wantBody  string
		wantCache string
	}{
		{name: "root", path: "/", wantBody: "<html>app</html>", wantCache: HTMLCacheControl},
		{name: "index explicitly", path: "/index.html", wantBody: "<html>app</html>", wantCache: HTMLCacheControl},
		{name: "script asset", path: "/assets/app-3f2a.js", wantBody: "console.log(1)", wantCache: AssetCacheControl},
		{name: "style asset", path: "/assets/app-3f2a.css", wantBody: "body{}", wantCache: AssetCacheControl},
		{name: "client route falls back", path: "/bookings/42", wantBody: "<html>app</html>", wantCache: HTMLCacheControl},
		{name: "directory with index", path: "/docs/", wantBody: "<html>docs</html>", wantCache: HTMLCacheControl},
		{name: "directory without index", path: "/assets", wantBody: "<html>app</html>", wantCache: HTMLCacheControl},
		{name: "traversal stays inside root", path: "/../../etc/passwd", wantBody: "<html>app</html>", wantCache: HTMLCacheControl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			body, _ := io.ReadAll(rec.Body)
			assert.Equal(t, tt.wantBody, string(body))
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestSPAHandler_MethodNotAllowed(t *testing.T) {
	h := NewSPAHandler(newBuildDir(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestSPAHandler_MissingBuild(t *testing.T) {
	h := NewSPAHandler(filepath.Join(t.TempDir(), "dist"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheControlFor(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"index.html", HTMLCacheControl},
		{"dist/bookings/index.html", HTMLCacheControl},
		{"INDEX.HTML", AssetCacheControl},
		{"page.htm", AssetCacheControl},
		{"logo.svg", AssetCacheControl},
		{"README", AssetCacheControl},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheControlFor(tt.file))
		})
	}
}
