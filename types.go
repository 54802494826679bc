package mdpress

import "fmt"

// Post is one processed markdown source file. Its ID is the SHA-256 digest of
// the raw file bytes, so renaming a file never changes its identity while any
// content change produces a new Post.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Filename  string `json:"filename"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// IndexEntry is the lightweight metadata projection of a Post kept in the
// aggregate index for listing and pagination.
type IndexEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Filename  string `json:"filename"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

// Index is the aggregate listing the browser renderer fetches as index.json.
// Posts appear in insertion order, exactly once each.
type Index struct {
	Posts       []IndexEntry `json:"posts"`
	TotalPosts  int          `json:"total_posts"`
	LastUpdated string       `json:"last_updated"`
}

// Outcome reports what Store.Put did with a post. On error the outcome is
// meaningless; check the error first.
type Outcome int

const (
	// AlreadyPresent means the identity was known and nothing was written.
	AlreadyPresent Outcome = iota
	// Inserted means a new record and index entry were durably written.
	Inserted
)

// CopiedAsset records one image copied into the store's asset directory.
type CopiedAsset struct {
	Source string // reference as written in the markdown
	Dest   string // path of the copy inside the store
	Width  int    // pixel dimensions, zero when the file could not be decoded
	Height int
}

// Summary reports the result of one ingestion run. Per-file failures never
// abort a run; they end up in Warnings.
type Summary struct {
	Scanned  int
	Inserted int
	Skipped  int
	Warnings []string
}

func (s Summary) String() string {
	return fmt.Sprintf("scanned %d, inserted %d, skipped %d, %d warning(s)",
		s.Scanned, s.Inserted, s.Skipped, len(s.Warnings))
}
