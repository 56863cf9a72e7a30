package narration

import (
	"fmt"
	"strings"
)

// Mode selects how a post is turned into segments.
type Mode int

const (
	// PostDescription narrates the title and the post body.
	PostDescription Mode = iota
	// TopComment narrates the title and the highest-scoring comment.
	TopComment
	// Top10Comments narrates the title and up to ten top comments in shuffled order.
	Top10Comments
)

// Modes lists every mode in menu order.
var Modes = []Mode{PostDescription, TopComment, Top10Comments}

// String returns the identifier used in flags and config.
func (m Mode) String() string {
	switch m {
	case PostDescription:
		return "post_description"
	case TopComment:
		return "top_comment"
	case Top10Comments:
		return "top10_comments"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Label returns the menu text for the mode.
func (m Mode) Label() string {
	switch m {
	case PostDescription:
		return "Post description"
	case TopComment:
		return "Top comment"
	case Top10Comments:
		return "Top 10 comments"
	default:
		return m.String()
	}
}

// ParseMode accepts a mode identifier, a short alias or the 1-based menu number.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "post_description", "description", "post", "1":
		return PostDescription, nil
	case "top_comment", "top", "comment", "2":
		return TopComment, nil
	case "top10_comments", "top10", "comments", "3":
		return Top10Comments, nil
	default:
		return 0, fmt.Errorf("unknown narration mode %q (want post_description, top_comment or top10_comments)", s)
	}
}
