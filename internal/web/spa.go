package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	IndexFile = "index.html"

	HTMLCacheControl  = "no-cache, no-store, must-revalidate"
	AssetCacheControl = "public, max-age=31536000, immutable"
)

// SPAHandler serves a pre-built single page application. Paths that do not
// name a file fall back to the root index.html so client side routing works.
type SPAHandler struct {
	root string
}

func NewSPAHandler(dir string) *SPAHandler {
	return &SPAHandler{root: dir}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// Clean against "/" so ".." can never climb out of the root.
	name := path.Clean("/" + r.URL.Path)

	if h.serveFile(w, r, h.resolve(name)) {
		return
	}
	if h.serveFile(w, r, filepath.Join(h.root, IndexFile)) {
		return
	}
	http.NotFound(w, r)
}

// resolve maps a cleaned URL path to a file, using the directory's own
// index.html when the path names a directory.
func (h *SPAHandler) resolve(name string) string {
	full := filepath.Join(h.root, filepath.FromSlash(name))
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return filepath.Join(full, IndexFile)
	}
	return full
}

func (h *SPAHandler) serveFile(w http.ResponseWriter, r *http.Request, file string) bool {
	f, err := os.Open(file)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	w.Header().Set("Cache-Control", CacheControlFor(file))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

// CacheControlFor returns the Cache-Control value for a served file: html is
// never cached, every other asset is fingerprinted and cached for a year.
func CacheControlFor(file string) string {
	if strings.HasSuffix(file, ".html") {
		return HTMLCacheControl
	}
	return AssetCacheControl
}
