package reddit

import "strings"

var tombstones = map[string]bool{
	"[deleted]":           true,
	"[removed]":           true,
	"[removed by reddit]": true,
}

// IsTombstone reports whether a body is blank or one of Reddit's
// deleted/removed placeholders.
func IsTombstone(body string) bool {
	body = strings.ToLower(strings.TrimSpace(body))
	return body == "" || tombstones[body]
}

// FilterComments returns the comments whose bodies are real text, in their
// original order. The input slice is not modified.
func FilterComments(comments []CommentRecord) []CommentRecord {
	out := make([]CommentRecord, 0, len(comments))
	for _, c := range comments {
		if IsTombstone(c.Body) {
			continue
		}
		out = append(out, c)
	}
	return out
}
