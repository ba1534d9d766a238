// Package static serves the frontend's files straight from disk.
package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	// DefaultIndex is served for "/".
	DefaultIndex = "index.html"

	// NotFoundMessage is the body of every 404.
	NotFoundMessage = "File not found"

	defaultContentType = "text/html"
)

// contentTypes is keyed by extension including the leading dot. Lookups are
// case-sensitive.
var contentTypes = map[string]string{
	".js":   "application/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpg",
}

// DefaultAliases maps extra entry points onto documents in the root.
var DefaultAliases = map[string]string{
	"/mobile": "mobile.html",
}

// ContentType returns the MIME type for name, falling back to text/html.
// A single leading dot does not start an extension, so ".js" has none.
func ContentType(name string) string {
	base := strings.TrimPrefix(filepath.Base(name), ".")
	if ct, ok := contentTypes[filepath.Ext(base)]; ok {
		return ct
	}
	return defaultContentType
}

// SetCORSHeaders writes the permissive cross-origin headers the frontend's
// API calls rely on.
func SetCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

type Handler struct {
	root    string
	index   string
	aliases map[string]string
}

type Option func(*Handler)

// WithIndex overrides the document served for "/".
func WithIndex(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.index = name
		}
	}
}

// WithAliases replaces the alias table. A nil map disables aliases.
func WithAliases(aliases map[string]string) Option {
	return func(h *Handler) {
		h.aliases = aliases
	}
}

// New returns a Handler serving files below root.
func New(root string, opts ...Option) *Handler {
	h := &Handler{
		root:    root,
		index:   DefaultIndex,
		aliases: DefaultAliases,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolve maps a URL path to a file below the root. The path is cleaned as
// a rooted path first, so ".." segments can never climb above the root.
func (h *Handler) Resolve(urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		return filepath.Join(h.root, h.index)
	}
	if doc, ok := h.aliases[urlPath]; ok {
		return filepath.Join(h.root, doc)
	}
	cleaned := path.Clean("/" + urlPath)
	return filepath.Join(h.root, filepath.FromSlash(cleaned))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	SetCORSHeaders(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	filePath := h.Resolve(r.URL.Path)
	content, err := os.ReadFile(filePath)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(NotFoundMessage))
		return
	}

	w.Header().Set("Content-Type", ContentType(filePath))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
