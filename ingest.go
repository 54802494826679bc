package mdpress

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Ingestor walks a source directory and reconciles the store with it: known
// identities are skipped before any transform work, new ones are built and
// persisted. Runs are additive-only; files that disappear from the source
// never remove store entries.
type Ingestor struct {
	cfg     Config
	store   *Store
	builder *Builder
	log     *zap.Logger
}

// IngestOption configures an Ingestor.
type IngestOption func(*Ingestor)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) IngestOption {
	return func(ing *Ingestor) { ing.log = log }
}

// NewIngestor wires an Ingestor over an opened store.
func NewIngestor(cfg Config, store *Store, opts ...IngestOption) *Ingestor {
	cfg.setDefaults()
	ing := &Ingestor{
		cfg:     cfg,
		store:   store,
		builder: NewBuilder(cfg),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Run performs one complete ingestion pass over the source directory. A
// missing or unreadable source directory is the only fatal condition; every
// per-file failure becomes a Summary warning and the run continues.
func (ing *Ingestor) Run() (Summary, error) {
	var sum Summary

	info, err := os.Stat(ing.cfg.SourceDir)
	if err != nil {
		return sum, fmt.Errorf("source directory %s: %w", ing.cfg.SourceDir, err)
	}
	if !info.IsDir() {
		return sum, fmt.Errorf("source path %s is not a directory", ing.cfg.SourceDir)
	}

	files, err := ing.sourceFiles()
	if err != nil {
		return sum, fmt.Errorf("scan %s: %w", ing.cfg.SourceDir, err)
	}

	for _, path := range files {
		sum.Scanned++
		ing.ingestFile(path, &sum)
	}

	ing.log.Info("ingestion complete",
		zap.Int("scanned", sum.Scanned),
		zap.Int("inserted", sum.Inserted),
		zap.Int("skipped", sum.Skipped),
		zap.Int("warnings", len(sum.Warnings)))
	return sum, nil
}

func (ing *Ingestor) sourceFiles() ([]string, error) {
	var files []string
	if !ing.cfg.Recursive {
		entries, err := os.ReadDir(ing.cfg.SourceDir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && isMarkdown(e.Name()) {
				files = append(files, filepath.Join(ing.cfg.SourceDir, e.Name()))
			}
		}
		return files, nil
	}
	err := filepath.WalkDir(ing.cfg.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isMarkdown(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isMarkdown(name string) bool {
	return markdownExts[strings.ToLower(filepath.Ext(name))]
}

// ingestFile processes one source file. Dedup short-circuits on the raw-byte
// identity before any building happens.
func (ing *Ingestor) ingestFile(path string, sum *Summary) {
	raw, err := os.ReadFile(path)
	if err != nil {
		ing.warn(sum, fmt.Sprintf("read %s: %v", path, err))
		return
	}
	if !utf8.Valid(raw) {
		ing.warn(sum, fmt.Sprintf("%s is not valid UTF-8", path))
		return
	}

	id := ContentID(raw)
	if ing.store.Exists(id) {
		sum.Skipped++
		ing.log.Debug("skipping known post",
			zap.String("file", filepath.Base(path)),
			zap.String("id", id))
		return
	}

	post, warnings := ing.builder.Build(path, raw)
	for _, w := range warnings {
		ing.warn(sum, w)
	}

	outcome, err := ing.store.Put(post)
	if err != nil {
		ing.warn(sum, fmt.Sprintf("store %s: %v", post.Filename, err))
		return
	}
	if outcome == AlreadyPresent {
		sum.Skipped++
		return
	}
	sum.Inserted++
	ing.log.Info("ingested post",
		zap.String("file", post.Filename),
		zap.String("id", post.ID),
		zap.String("slug", post.Slug))
}

func (ing *Ingestor) warn(sum *Summary, msg string) {
	sum.Warnings = append(sum.Warnings, msg)
	ing.log.Warn(msg)
}
