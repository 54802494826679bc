package mdpress

import "path/filepath"

// Config holds the fixed inputs of a pipeline run and its tuning knobs.
type Config struct {
	SourceDir string // directory of markdown source files
	StoreDir  string // destination store directory

	ExcerptLength  int    // excerpt bound in runes (default 200)
	AssetURLPrefix string // prefix written into rewritten image references (default "db/assets/images/posts")
	Recursive      bool   // walk the source directory recursively (default off)

	Addr        string // preview server listen address (default ":3000")
	HistoryPath string // run-ledger SQLite path; empty disables recording
	LogLevel    string // debug, info, warn or error (default "info")
}

func (c *Config) setDefaults() {
	if c.ExcerptLength == 0 {
		c.ExcerptLength = 200
	}
	if c.AssetURLPrefix == "" {
		c.AssetURLPrefix = "db/assets/images/posts"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// assetDir is where copied images land inside the store directory.
func (c Config) assetDir() string {
	return filepath.Join(c.StoreDir, "assets", "images", "posts")
}
