package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteShell(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for _, name := range []string{"index.html", "app.js", "style.css"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("shell file %s missing: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("shell file %s is empty", name)
		}
	}
}

func TestWriteShellFetchesStorePaths(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir); err != nil {
		t.Fatal(err)
	}
	app, err := os.ReadFile(filepath.Join(dir, "app.js"))
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{"db/index.json", "db/post_"} {
		if !strings.Contains(string(app), path) {
			t.Errorf("app.js does not reference %s", path)
		}
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Write(dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "stale" {
		t.Error("Write did not overwrite an existing shell file")
	}
}
