package narration

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/reddit"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
)

const (
	// MaxComments caps the Top10Comments selection.
	MaxComments = 10

	// EmptyBodyPlaceholder is narrated when a post has no body text.
	EmptyBodyPlaceholder = "This post has no additional text content."
)

// Planner maps a post and a mode to an ordered list of segments.
type Planner struct {
	rng    *rand.Rand
	logger *log.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithRand sets the source used to shuffle Top10Comments.
func WithRand(r *rand.Rand) PlannerOption {
	return func(p *Planner) { p.rng = r }
}

// WithSeed makes the Top10Comments shuffle deterministic.
func WithSeed(seed uint64) PlannerOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithLogger sets the planner's logger.
func WithLogger(l *log.Logger) PlannerOption {
	return func(p *Planner) { p.logger = l }
}

// NewPlanner returns a planner with a randomly seeded shuffle.
func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	return p
}

// Plan builds the segments for post in the given mode. Segments whose
// sanitized text is empty are dropped. A NO_CONTENT error is returned when
// a comment mode has no usable comments or when nothing is left to narrate.
func (p *Planner) Plan(post *reddit.PostRecord, mode Mode) ([]Segment, error) {
	if post == nil {
		return nil, tts.NewTTSError(tts.ErrorCodeNoContent, "no post to narrate", nil)
	}

	var segments []Segment
	switch mode {
	case PostDescription:
		segments = p.planDescription(post)

	case TopComment, Top10Comments:
		comments := rankComments(post.Comments)
		if len(comments) == 0 {
			return nil, tts.NewTTSError(tts.ErrorCodeNoContent, "no comments available", nil).
				WithContext("post_id", post.ID)
		}
		if mode == TopComment {
			segments = p.planTopComment(post, comments[0])
		} else {
			segments = p.planTopComments(post, comments)
		}

	default:
		return nil, tts.NewTTSError(tts.ErrorCodeInvalidConfig, fmt.Sprintf("unknown narration mode %d", int(mode)), nil)
	}

	segments = dropEmpty(segments)
	if len(segments) == 0 {
		return nil, tts.NewTTSError(tts.ErrorCodeNoContent, "no narratable content", nil).
			WithContext("post_id", post.ID)
	}

	p.logger.Debug("Planned segments", "post", post.ID, "mode", mode, "count", len(segments))
	return segments, nil
}

func titleSegment(post *reddit.PostRecord) Segment {
	return Segment{
		Role:        RoleTitle,
		Text:        Sanitize(post.Title),
		RawText:     post.Title,
		Description: "Post title",
		Suffix:      "title",
		PostID:      post.ID,
		SourceID:    post.ID,
		Author:      post.Author,
		Score:       post.Score,
	}
}

func (p *Planner) planDescription(post *reddit.PostRecord) []Segment {
	body := Sanitize(post.Body)
	if body == "" {
		body = EmptyBodyPlaceholder
	}
	return []Segment{
		titleSegment(post),
		{
			Role:        RoleBody,
			Text:        body,
			RawText:     post.Body,
			Description: "Post content",
			Suffix:      "content",
			PostID:      post.ID,
			SourceID:    post.ID,
			Author:      post.Author,
			Score:       post.Score,
		},
	}
}

func (p *Planner) planTopComment(post *reddit.PostRecord, c rankedComment) []Segment {
	return []Segment{
		titleSegment(post),
		{
			Role:        RoleComment,
			Text:        c.text,
			RawText:     c.Body,
			Index:       1,
			Description: fmt.Sprintf("Top comment by u/%s (score %d)", c.Author, c.Score),
			Suffix:      "top_comment",
			PostID:      post.ID,
			SourceID:    c.ID,
			Author:      c.Author,
			Score:       c.Score,
		},
	}
}

func (p *Planner) planTopComments(post *reddit.PostRecord, comments []rankedComment) []Segment {
	n := min(MaxComments, len(comments))
	selected := make([]rankedComment, n)
	copy(selected, comments[:n])

	// Only the selected subset is shuffled; the title always leads.
	p.rng.Shuffle(n, func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	segments := make([]Segment, 0, n+1)
	segments = append(segments, titleSegment(post))
	for i, c := range selected {
		segments = append(segments, Segment{
			Role:        RoleComment,
			Text:        c.text,
			RawText:     c.Body,
			Index:       i + 1,
			Description: fmt.Sprintf("Comment %d of %d by u/%s (score %d)", i+1, n, c.Author, c.Score),
			Suffix:      fmt.Sprintf("comment_%02d", i+1),
			PostID:      post.ID,
			SourceID:    c.ID,
			Author:      c.Author,
			Score:       c.Score,
		})
	}
	return segments
}

type rankedComment struct {
	reddit.CommentRecord
	text string
}

// rankComments drops tombstoned and unspeakable comments and sorts the rest
// by score, highest first. Equal scores keep their fetch order.
func rankComments(comments []reddit.CommentRecord) []rankedComment {
	var ranked []rankedComment
	for _, c := range reddit.FilterComments(comments) {
		text := Sanitize(c.Body)
		if text == "" {
			continue
		}
		ranked = append(ranked, rankedComment{CommentRecord: c, text: text})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func dropEmpty(segments []Segment) []Segment {
	out := segments[:0]
	for _, s := range segments {
		if s.Text == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
