package narration

// Role tags what part of the post a segment narrates.
type Role string

const (
	RoleTitle   Role = "title"
	RoleBody    Role = "body"
	RoleComment Role = "comment"
)

// Segment is one unit of narration that becomes one audio file.
type Segment struct {
	Role Role

	// Text is the sanitized text to speak; RawText is the source markdown.
	Text    string
	RawText string

	// Index is 1-based within comment sequences and 0 otherwise.
	Index int

	// Description is shown to the user, e.g. "Comment 3 of 10 by u/alice (score 42)".
	Description string

	// Suffix is the role part of the output filename: title, content,
	// top_comment or comment_NN.
	Suffix string

	PostID   string
	SourceID string
	Author   string
	Score    int
}
