// Package scaffold provides the embedded static site shell that consumes an
// mdpress store: a page skeleton, the client-side renderer, and styles.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Site contains the shell files served as-is next to the store directory.
//
//go:embed all:site
var Site embed.FS

// Write copies the embedded shell into dir, which becomes the web root the
// preview server (or any static host) serves. Existing shell files are
// overwritten; everything else in dir is left alone.
func Write(dir string) error {
	return fs.WalkDir(Site, "site", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, "site"), "/")
		out := filepath.Join(dir, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		data, err := Site.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o644)
	})
}
