package reddit

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	got := CacheKey("op", "abc123")
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(got) {
		t.Fatalf("CacheKey() = %q, want 32 hex chars", got)
	}
	if got != CacheKey("op", "abc123") {
		t.Error("CacheKey() is not deterministic")
	}
	if got == CacheKey("op", "abc124") {
		t.Error("CacheKey() collides for different ids")
	}
}

func TestPostCache_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temp")
	cache := NewPostCache(dir)

	post := &PostRecord{
		ID:         "abc123",
		Title:      "Today I learned",
		Author:     "op",
		Subreddit:  "todayilearned",
		Score:      42,
		CreatedUTC: time.Unix(1700000000, 0).UTC(),
		Comments: []CommentRecord{
			{ID: "c1", Author: "alice", Body: "First!", Score: 50},
		},
	}

	path, err := cache.Save(post)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, CacheKey("op", "abc123")+".json"); path != want {
		t.Errorf("Save() path = %q, want %q", path, want)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want 1", len(entries))
	}

	got, err := cache.Load("op", "abc123")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Title != post.Title || len(got.Comments) != 1 || got.Comments[0].Score != 50 {
		t.Errorf("Load() = %+v", got)
	}
	if !got.CreatedUTC.Equal(post.CreatedUTC) {
		t.Errorf("CreatedUTC = %v, want %v", got.CreatedUTC, post.CreatedUTC)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile(missing) error = nil")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("LoadFile(bad json) error = nil")
	}

	noID := filepath.Join(dir, "noid.json")
	if err := os.WriteFile(noID, []byte(`{"title":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(noID); err == nil {
		t.Error("LoadFile(no id) error = nil")
	}
}
