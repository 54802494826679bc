package mdpress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound is returned when a requested post does not exist in the store.
var ErrNotFound = errors.New("mdpress: post not found")

// Store persists Posts as individually addressable JSON records plus an
// aggregate index.json, in the exact layout the browser renderer fetches.
// Ingestion is append-only: an identity is written once and never mutated.
type Store struct {
	dir   string
	index Index
	known map[string]bool
	now   func() time.Time
}

// postRecord is the on-disk envelope of post_{id}.json.
type postRecord struct {
	Post        Post   `json:"post"`
	LastUpdated string `json:"last_updated"`
}

// NewStore opens (or creates) a store rooted at dir, including its asset
// directory, and loads any existing index so membership checks and insertion
// order survive across runs.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "assets", "images", "posts"), 0o755); err != nil {
		return nil, err
	}
	s := &Store{dir: dir, known: make(map[string]bool), now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.indexPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &s.index); err != nil {
		return fmt.Errorf("parse %s: %w", s.indexPath(), err)
	}
	for _, e := range s.index.Posts {
		s.known[e.ID] = true
	}
	return nil
}

// Exists reports whether a post with the given content identity is tracked.
func (s *Store) Exists(id string) bool {
	return s.known[id]
}

// Put persists post unless its identity is already tracked, in which case
// nothing is written and AlreadyPresent is returned. The individual record is
// written before the index; if the index write fails the record is removed
// again, so neither file can orphan the other.
func (s *Store) Put(post Post) (Outcome, error) {
	if s.known[post.ID] {
		return AlreadyPresent, nil
	}

	stamp := s.now().UTC().Truncate(time.Second).Format(time.RFC3339)
	if err := writeJSON(s.postPath(post.ID), postRecord{Post: post, LastUpdated: stamp}); err != nil {
		return AlreadyPresent, fmt.Errorf("write post record: %w", err)
	}

	entry := IndexEntry{
		ID:        post.ID,
		Title:     post.Title,
		Excerpt:   post.Excerpt,
		Filename:  post.Filename,
		Slug:      post.Slug,
		CreatedAt: post.CreatedAt,
	}
	next := Index{
		Posts:       append(append([]IndexEntry(nil), s.index.Posts...), entry),
		TotalPosts:  len(s.index.Posts) + 1,
		LastUpdated: stamp,
	}
	if err := writeJSON(s.indexPath(), next); err != nil {
		os.Remove(s.postPath(post.ID))
		return AlreadyPresent, fmt.Errorf("write index: %w", err)
	}

	s.index = next
	s.known[post.ID] = true
	return Inserted, nil
}

// Index returns the current aggregate metadata in insertion order.
func (s *Store) Index() Index {
	return s.index
}

// LoadPost reads a single post record by content identity.
func (s *Store) LoadPost(id string) (Post, error) {
	raw, err := os.ReadFile(s.postPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	var rec postRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Post{}, fmt.Errorf("parse post %s: %w", id, err)
	}
	return rec.Post, nil
}

// AssetDir returns the directory copied images are placed in.
func (s *Store) AssetDir() string {
	return filepath.Join(s.dir, "assets", "images", "posts")
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, "index.json")
}

func (s *Store) postPath(id string) string {
	return filepath.Join(s.dir, "post_"+id+".json")
}

// writeJSON writes v to path via a temp file and rename so a crash can never
// leave a truncated record behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
