package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

// fakeEngine writes the text as the audio payload and fails the calls
// whose 0-based index is in failOn.
type fakeEngine struct {
	failOn   map[int]bool
	calls    int
	requests []ttypes.SynthesisRequest
	onCall   func(n int)
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) Type() ttypes.EngineType { return ttypes.EngineOffline }
func (f *fakeEngine) Extension() string { return "wav" }
func (f *fakeEngine) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeEngine) Synthesize(ctx context.Context, req ttypes.SynthesisRequest) error {
	n := f.calls
	f.calls++
	f.requests = append(f.requests, req)
	if f.onCall != nil {
		f.onCall(n)
	}
	if f.failOn[n] {
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, fmt.Sprintf("engine fault on call %d", n), nil)
	}
	return os.WriteFile(req.OutputPath, []byte("RIFF"+req.Text), 0o644)
}

func testSegments(n int) []narration.Segment {
	segments := []narration.Segment{{
		Role: narration.RoleTitle, Text: "A post title", Description: "Post title",
		Suffix: "title", PostID: "p1", SourceID: "p1",
	}}
	for i := 1; i < n; i++ {
		segments = append(segments, narration.Segment{
			Role:        narration.RoleComment,
			Text:        fmt.Sprintf("Comment **number** %d", i),
			Index:       i,
			Description: fmt.Sprintf("Comment %d", i),
			Suffix:      fmt.Sprintf("comment_%02d", i),
			PostID:      "p1",
			SourceID:    fmt.Sprintf("c%d", i),
		})
	}
	return segments
}

func newTestOrchestrator(dir string, opts ...Option) *Orchestrator {
	return New(dir, append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
}

func TestOrchestrator_PartialFailures(t *testing.T) {
	const n = 5
	tests := []struct {
		name   string
		failOn []int
	}{
		{"all succeed", nil},
		{"one fails", []int{2}},
		{"first and last fail", []int{0, 4}},
		{"all but one fail", []int{0, 1, 2, 3}},
		{"all fail", []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			engine := &fakeEngine{failOn: make(map[int]bool)}
			for _, i := range tt.failOn {
				engine.failOn[i] = true
			}

			agg, err := newTestOrchestrator(dir).Run(context.Background(), testSegments(n), engine, ttypes.VoiceParameters{Language: "en"})

			k := len(tt.failOn)
			if agg == nil {
				t.Fatal("Run() returned nil result")
			}
			if agg.Succeeded() != n-k || agg.Failed != k {
				t.Errorf("Run() succeeded/failed = %d/%d, want %d/%d", agg.Succeeded(), agg.Failed, n-k, k)
			}
			if agg.Success() != (n-k > 0) {
				t.Errorf("Success() = %v, want %v", agg.Success(), n-k > 0)
			}
			if n-k == 0 {
				if !errors.Is(err, ErrNoAudio) {
					t.Errorf("Run() error = %v, want ErrNoAudio", err)
				}
			} else if err != nil {
				t.Errorf("Run() error = %v", err)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != n-k {
				t.Errorf("output dir has %d files, want %d", len(entries), n-k)
			}
			if engine.calls != n {
				t.Errorf("backend called %d times, want %d", engine.calls, n)
			}

			for i, r := range agg.Results {
				if r.Success == engine.failOn[i] {
					t.Errorf("Results[%d].Success = %v, want %v", i, r.Success, !engine.failOn[i])
				}
				if !r.Success && (r.Error == "" || r.Code != tts.ErrorCodeSynthesisFailed) {
					t.Errorf("Results[%d] failure not reported: %+v", i, r)
				}
			}
		})
	}
}

func TestOrchestrator_ResultDetails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	engine := &fakeEngine{}

	agg, err := newTestOrchestrator(dir).Run(context.Background(), testSegments(2), engine, ttypes.VoiceParameters{Language: "en"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if agg.Engine != "fake" || agg.PostID != "p1" || agg.RunID == "" {
		t.Errorf("aggregate header = %q/%q/%q", agg.Engine, agg.PostID, agg.RunID)
	}
	if agg.FinishedAt.Before(agg.StartedAt) {
		t.Error("FinishedAt before StartedAt")
	}

	pattern := regexp.MustCompile(`^audio_[0-9a-f]{12}_(title|comment_01)\.wav$`)
	for i, r := range agg.Results {
		if !pattern.MatchString(filepath.Base(r.FilePath)) {
			t.Errorf("Results[%d].FilePath = %q does not match naming pattern", i, r.FilePath)
		}
		if filepath.Dir(r.FilePath) != dir {
			t.Errorf("Results[%d] written to %q, want %q", i, filepath.Dir(r.FilePath), dir)
		}
		info, err := os.Stat(r.FilePath)
		if err != nil {
			t.Fatalf("Stat(%s) error = %v", r.FilePath, err)
		}
		if r.FileSize != info.Size() {
			t.Errorf("Results[%d].FileSize = %d, want %d", i, r.FileSize, info.Size())
		}
		if r.EstimatedDuration <= 0 {
			t.Errorf("Results[%d].EstimatedDuration = %v, want > 0", i, r.EstimatedDuration)
		}
	}

	// The orchestrator sanitizes again before synthesis.
	if got := engine.requests[1].Text; got != "Comment number 1" {
		t.Errorf("backend received %q, want sanitized text", got)
	}
}

func TestOrchestrator_NoSegments(t *testing.T) {
	engine := &fakeEngine{}
	agg, err := newTestOrchestrator(t.TempDir()).Run(context.Background(), nil, engine, ttypes.VoiceParameters{})
	if !errors.Is(err, tts.ErrNoContent) {
		t.Errorf("Run() error = %v, want NO_CONTENT", err)
	}
	if agg == nil || len(agg.Results) != 0 {
		t.Errorf("Run() result = %+v, want empty aggregate", agg)
	}
	if engine.calls != 0 {
		t.Errorf("backend called %d times, want 0", engine.calls)
	}
}

func TestOrchestrator_EmptySegmentText(t *testing.T) {
	segments := testSegments(2)
	segments[1].Text = "> only a quote"
	engine := &fakeEngine{}

	agg, err := newTestOrchestrator(t.TempDir()).Run(context.Background(), segments, engine, ttypes.VoiceParameters{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if engine.calls != 1 {
		t.Errorf("backend called %d times, want 1", engine.calls)
	}
	if r := agg.Results[1]; r.Success || r.Code != tts.ErrorCodeEmptyInput {
		t.Errorf("Results[1] = %+v, want EMPTY_INPUT failure", r)
	}
}

func TestOrchestrator_CancelBetweenSegments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &fakeEngine{onCall: func(n int) {
		if n == 1 {
			cancel()
		}
	}}

	agg, err := newTestOrchestrator(t.TempDir()).Run(ctx, testSegments(5), engine, ttypes.VoiceParameters{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if engine.calls != 2 {
		t.Errorf("backend called %d times, want 2", engine.calls)
	}
	if agg.Succeeded() != 2 || agg.Failed != 3 {
		t.Errorf("succeeded/failed = %d/%d, want 2/3", agg.Succeeded(), agg.Failed)
	}
	for _, r := range agg.Results[2:] {
		if r.Code != tts.ErrorCodeCanceled {
			t.Errorf("remaining segment code = %s, want CANCELED", r.Code)
		}
	}
}

func TestOrchestrator_Progress(t *testing.T) {
	var calls []string
	progress := func(done, total int, r SynthesisResult) {
		calls = append(calls, fmt.Sprintf("%d/%d:%v", done, total, r.Success))
	}
	engine := &fakeEngine{failOn: map[int]bool{1: true}}

	_, err := newTestOrchestrator(t.TempDir(), WithProgress(progress)).Run(context.Background(), testSegments(3), engine, ttypes.VoiceParameters{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "1/3:true 2/3:false 3/3:true"
	if got := strings.Join(calls, " "); got != want {
		t.Errorf("progress calls = %q, want %q", got, want)
	}
}

func TestOrchestrator_PlainBackendError(t *testing.T) {
	engine := &plainErrorEngine{}
	agg, err := newTestOrchestrator(t.TempDir()).Run(context.Background(), testSegments(1), engine, ttypes.VoiceParameters{})
	if !errors.Is(err, ErrNoAudio) {
		t.Fatalf("Run() error = %v, want ErrNoAudio", err)
	}
	if agg.Results[0].Code != tts.ErrorCodeSynthesisFailed {
		t.Errorf("Code = %q, want SYNTHESIS_FAILED", agg.Results[0].Code)
	}
	if !strings.Contains(agg.Results[0].Error, "disk on fire") {
		t.Errorf("Error = %q, want the backend message preserved", agg.Results[0].Error)
	}
}

type plainErrorEngine struct{ fakeEngine }

func (p *plainErrorEngine) Synthesize(context.Context, ttypes.SynthesisRequest) error {
	return errors.New("disk on fire")
}
