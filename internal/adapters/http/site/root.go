// Package site serves the embedded greeting page bundle.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

const publicPrefix = "public/"

// Error constants
var (
	ErrIndexMissing = errors.New("index.html not found")
)

// Register attaches the embedded page bundle to mux at /.
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler(opts...))
}

// Option configures a RootHandler.
type Option func(*RootHandler)

// WithCacheControl sets the Cache-Control header on every response.
func WithCacheControl(v string) Option {
	return func(h *RootHandler) {
		h.cacheControl = v
	}
}

// WithFS replaces the embedded bundle.
func WithFS(fsys fs.FS) Option {
	return func(h *RootHandler) {
		if fsys != nil {
			h.fsys = fsys
		}
	}
}

// RootHandler serves bundle files and falls back to index.html for unknown
// paths. Paths under api/ are never answered with the page. The bundle is
// also mounted read-only at /public/, where missing files are plain 404s.
type RootHandler struct {
	fsys         fs.FS
	files        http.Handler
	cacheControl string
}

// NewRootHandler creates a new root handler
func NewRootHandler(opts ...Option) *RootHandler {
	h := &RootHandler{fsys: Static()}
	for _, opt := range opts {
		opt(h)
	}
	h.files = http.FileServer(http.FS(h.fsys))
	return h
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleRoot(w, r)
}

// HandleRoot handles GET requests for the page bundle.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "api" || strings.HasPrefix(name, "api/") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found"}` + "\n"))
		return
	}

	if rest, ok := strings.CutPrefix(name, publicPrefix); ok || name == "public" {
		h.servePublic(w, r, rest)
		return
	}

	if name != "" && name != indexFile {
		if info, err := fs.Stat(h.fsys, name); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}
	h.serveIndex(w, r)
}

func (h *RootHandler) servePublic(w http.ResponseWriter, r *http.Request, name string) {
	if name == "" || name == indexFile {
		http.NotFound(w, r)
		return
	}
	if info, err := fs.Stat(h.fsys, name); err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFileFS(w, r, h.fsys, name)
}

func (h *RootHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	b, err := fs.ReadFile(h.fsys, indexFile)
	if err != nil {
		http.Error(w, ErrIndexMissing.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(b)
	}
}
