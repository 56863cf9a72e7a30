// Package reddit holds the post model, comment filtering, the public JSON
// fetch client and the on-disk post cache.
package reddit

import "time"

// PostRecord is an immutable snapshot of a fetched post.
type PostRecord struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Subreddit   string          `json:"subreddit"`
	Body        string          `json:"body"`
	Score       int             `json:"score"`
	NumComments int             `json:"num_comments"`
	Permalink   string          `json:"permalink,omitempty"`
	CreatedUTC  time.Time       `json:"created_utc"`
	Comments    []CommentRecord `json:"comments"`
}

// CommentRecord is one top-level comment of a post.
type CommentRecord struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	Score         int       `json:"score"`
	CreatedUTC    time.Time `json:"created_utc"`
	IsSubmitter   bool      `json:"is_submitter"`
	ParentID      string    `json:"parent_id"`
	Stickied      bool      `json:"stickied,omitempty"`
	Distinguished string    `json:"distinguished,omitempty"`
}
