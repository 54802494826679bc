package mdpress

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s, dir
}

func testPost(id string) Post {
	return Post{
		ID:        id,
		Title:     "Test Post",
		Excerpt:   "A test excerpt",
		Content:   "# Test\n\nContent body.",
		Filename:  "Test Post.md",
		Slug:      "test-post-20240115",
		CreatedAt: "2024-01-15T10:30:00Z",
		UpdatedAt: "2024-01-15T10:30:00Z",
	}
}

func TestNewStoreCreatesLayout(t *testing.T) {
	s, dir := setupTestStore(t)
	if s == nil {
		t.Fatal("store should not be nil")
	}
	if _, err := os.Stat(filepath.Join(dir, "assets", "images", "posts")); err != nil {
		t.Errorf("asset directory missing: %v", err)
	}
}

func TestPutAndLoadPost(t *testing.T) {
	s, _ := setupTestStore(t)
	post := testPost(ContentID([]byte("one")))

	outcome, err := s.Put(post)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if outcome != Inserted {
		t.Fatalf("outcome = %v, want Inserted", outcome)
	}

	got, err := s.LoadPost(post.ID)
	if err != nil {
		t.Fatalf("LoadPost failed: %v", err)
	}
	if got != post {
		t.Errorf("LoadPost = %+v, want %+v", got, post)
	}
}

func TestPutDeduplicates(t *testing.T) {
	s, _ := setupTestStore(t)
	post := testPost(ContentID([]byte("one")))

	if _, err := s.Put(post); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	before, err := os.ReadFile(s.postPath(post.ID))
	if err != nil {
		t.Fatal(err)
	}

	changed := post
	changed.Title = "Different Title"
	outcome, err := s.Put(changed)
	if err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	if outcome != AlreadyPresent {
		t.Errorf("outcome = %v, want AlreadyPresent", outcome)
	}

	after, err := os.ReadFile(s.postPath(post.ID))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("duplicate Put mutated the stored record")
	}
	if s.Index().TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1", s.Index().TotalPosts)
	}
}

func TestExists(t *testing.T) {
	s, _ := setupTestStore(t)
	id := ContentID([]byte("one"))

	if s.Exists(id) {
		t.Error("Exists reported an id before Put")
	}
	if _, err := s.Put(testPost(id)); err != nil {
		t.Fatal(err)
	}
	if !s.Exists(id) {
		t.Error("Exists missed an inserted id")
	}
}

func TestLoadPostNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	if _, err := s.LoadPost("deadbeef"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexInsertionOrder(t *testing.T) {
	s, _ := setupTestStore(t)
	ids := []string{
		ContentID([]byte("one")),
		ContentID([]byte("two")),
		ContentID([]byte("three")),
	}
	for _, id := range ids {
		if _, err := s.Put(testPost(id)); err != nil {
			t.Fatal(err)
		}
	}

	idx := s.Index()
	if idx.TotalPosts != 3 || len(idx.Posts) != 3 {
		t.Fatalf("index has %d/%d posts, want 3", len(idx.Posts), idx.TotalPosts)
	}
	for i, id := range ids {
		if idx.Posts[i].ID != id {
			t.Errorf("index[%d].ID = %s, want %s", i, idx.Posts[i].ID, id)
		}
	}
}

func TestStoreReload(t *testing.T) {
	s, dir := setupTestStore(t)
	id := ContentID([]byte("one"))
	if _, err := s.Put(testPost(id)); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !reopened.Exists(id) {
		t.Error("reopened store lost a known id")
	}
	if reopened.Index().TotalPosts != 1 {
		t.Errorf("reopened TotalPosts = %d, want 1", reopened.Index().TotalPosts)
	}
}

// Every index entry must have a post record and every post record an index
// entry — no orphans in either direction.
func TestIndexStoreConsistency(t *testing.T) {
	s, dir := setupTestStore(t)
	for _, body := range []string{"one", "two", "three"} {
		if _, err := s.Put(testPost(ContentID([]byte(body)))); err != nil {
			t.Fatal(err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "index.json"))
	if err != nil {
		t.Fatal(err)
	}
	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		t.Fatal(err)
	}

	indexed := make(map[string]bool)
	for _, e := range idx.Posts {
		indexed[e.ID] = true
		if _, err := os.Stat(filepath.Join(dir, "post_"+e.ID+".json")); err != nil {
			t.Errorf("index entry %s has no post record", e.ID)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "post_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, "post_"), ".json")
		if !indexed[id] {
			t.Errorf("post record %s is not tracked by the index", id)
		}
	}
}
