package mdpress

import (
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// markdownExts are the source extensions the ingestor recognizes and the
// title derivation strips.
var markdownExts = map[string]bool{".md": true, ".markdown": true}

// Builder turns source files into fully populated Posts.
type Builder struct {
	cfg Config
	now func() time.Time
}

// NewBuilder returns a Builder for the given configuration.
func NewBuilder(cfg Config) *Builder {
	cfg.setDefaults()
	return &Builder{cfg: cfg, now: time.Now}
}

// Build assembles a Post from a source file path and its raw bytes. The
// identity is computed from the untouched raw bytes; assets are resolved
// before links so the two rewrites never cross-interfere; the excerpt is
// derived from the fully processed text. Asset warnings are returned, never
// raised — a Post with a missing image is still a complete Post.
func (b *Builder) Build(path string, raw []byte) (Post, []string) {
	filename := filepath.Base(path)
	title := TitleFromFilename(filename)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	content, _, warnings := ResolveAssets(string(raw), filepath.Dir(path), b.cfg.assetDir(), stem, b.cfg.AssetURLPrefix)
	content = RewriteLinks(content)

	created := b.now().UTC().Truncate(time.Second)
	stamp := created.Format(time.RFC3339)
	return Post{
		ID:        ContentID(raw),
		Title:     title,
		Excerpt:   Excerpt(content, b.cfg.ExcerptLength),
		Content:   content,
		Filename:  filename,
		Slug:      Slugify(title) + "-" + created.Format("20060102"),
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}, warnings
}

// TitleFromFilename derives the display title: the filename with a known
// markdown extension stripped. The title is a human label only; storage
// identity always comes from content.
func TitleFromFilename(name string) string {
	if markdownExts[strings.ToLower(filepath.Ext(name))] {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// Slugify converts a title to a URL-safe slug: lowercase, with every run of
// non-alphanumeric characters collapsed to a single dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Excerpt returns the first non-empty paragraph of content, truncated to max
// runes with a trailing ellipsis marker when it runs longer.
func Excerpt(content string, max int) string {
	for _, block := range strings.Split(content, "\n\n") {
		p := strings.TrimSpace(block)
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) <= max {
			return p
		}
		return string([]rune(p)[:max]) + "..."
	}
	return ""
}
