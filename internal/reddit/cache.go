package reddit

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PostCache stores fetched posts as JSON files under a directory.
type PostCache struct {
	dir string
}

// NewPostCache returns a cache rooted at dir. The directory is created on
// first write.
func NewPostCache(dir string) *PostCache {
	return &PostCache{dir: dir}
}

// Dir returns the cache directory.
func (c *PostCache) Dir() string { return c.dir }

// CacheKey is the 32 hex character md5 of "<author>_<post_id>".
func CacheKey(author, postID string) string {
	sum := md5.Sum([]byte(author + "_" + postID))
	return hex.EncodeToString(sum[:])
}

// Path returns where a post with the given author and id is stored.
func (c *PostCache) Path(author, postID string) string {
	return filepath.Join(c.dir, CacheKey(author, postID)+".json")
}

// Save writes post atomically and returns the file path.
func (c *PostCache) Save(post *PostRecord) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode post: %w", err)
	}

	path := c.Path(post.Author, post.ID)
	tmp, err := os.CreateTemp(c.dir, ".post-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write post: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write post: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move post into cache: %w", err)
	}
	return path, nil
}

// Load reads a cached post by author and id.
func (c *PostCache) Load(author, postID string) (*PostRecord, error) {
	return LoadFile(c.Path(author, postID))
}

// LoadFile reads a post JSON file written by Save.
func LoadFile(path string) (*PostRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read post file: %w", err)
	}
	var post PostRecord
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("failed to decode post file %s: %w", path, err)
	}
	if post.ID == "" {
		return nil, fmt.Errorf("post file %s has no post id", path)
	}
	return &post, nil
}
