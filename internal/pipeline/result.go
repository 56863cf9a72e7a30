package pipeline

import (
	"time"

	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
)

// SynthesisResult is the outcome of one segment.
type SynthesisResult struct {
	Segment narration.Segment

	Success  bool
	FilePath string
	FileSize int64

	// EstimatedDuration comes from the text length, not the audio.
	EstimatedDuration time.Duration
	Preview           string

	Error string
	Code  tts.ErrorCode
}

// AggregateResult is the outcome of one pipeline run.
type AggregateResult struct {
	RunID     string
	PostID    string
	Engine    string
	OutputDir string

	Results []SynthesisResult
	Failed  int

	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded returns the number of files generated.
func (a *AggregateResult) Succeeded() int {
	return len(a.Results) - a.Failed
}

// Success reports whether at least one file was generated.
func (a *AggregateResult) Success() bool {
	return a.Succeeded() > 0
}

// Files returns the paths of generated files in segment order.
func (a *AggregateResult) Files() []string {
	var files []string
	for _, r := range a.Results {
		if r.Success {
			files = append(files, r.FilePath)
		}
	}
	return files
}

// TotalSize sums the sizes of generated files.
func (a *AggregateResult) TotalSize() int64 {
	var n int64
	for _, r := range a.Results {
		n += r.FileSize
	}
	return n
}

// TotalDuration sums the estimated durations of generated files.
func (a *AggregateResult) TotalDuration() time.Duration {
	var d time.Duration
	for _, r := range a.Results {
		if r.Success {
			d += r.EstimatedDuration
		}
	}
	return d
}
