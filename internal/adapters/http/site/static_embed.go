package site

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

const indexFile = "index.html"

// Static returns the embedded page bundle rooted at its top directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Expose the raw FS on error.
		return staticFS
	}
	return sub
}

// IndexHTML returns the embedded page document.
func IndexHTML() ([]byte, error) {
	b, err := fs.ReadFile(Static(), indexFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexMissing, err)
	}
	return b, nil
}
