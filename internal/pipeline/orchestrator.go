// Package pipeline drives a synthesis backend over planned segments and
// collects per-segment results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

// ErrNoAudio is returned when a run generates no files at all.
var ErrNoAudio = errors.New("no audio files generated")

// ProgressFunc is called after each segment with the number of segments
// finished so far.
type ProgressFunc func(done, total int, result SynthesisResult)

// Orchestrator runs segments through a backend one at a time.
type Orchestrator struct {
	outputDir string
	progress  ProgressFunc
	logger    *log.Logger
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress registers a per-segment progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New returns an orchestrator writing into outputDir.
func New(outputDir string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		outputDir: outputDir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return o
}

// Run synthesizes every segment in order. A failed segment is recorded and
// the run continues. The returned AggregateResult is never nil; the error
// is non-nil when there was nothing to run or no file was generated.
//
// Cancellation is checked between segments. Segments not started when ctx
// is done are recorded as CANCELED without calling the backend.
func (o *Orchestrator) Run(ctx context.Context, segments []narration.Segment, engine ttypes.Engine, voice ttypes.VoiceParameters) (*AggregateResult, error) {
	agg := &AggregateResult{
		RunID:     uuid.NewString(),
		Engine:    engine.Name(),
		OutputDir: o.outputDir,
		StartedAt: o.now(),
	}
	if len(segments) > 0 {
		agg.PostID = segments[0].PostID
	}
	logger := o.logger.With("run", agg.RunID[:8])

	defer func() { agg.FinishedAt = o.now() }()

	if len(segments) == 0 {
		return agg, tts.NewTTSError(tts.ErrorCodeNoContent, "no valid content to narrate", nil)
	}

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return agg, tts.NewTTSError(tts.ErrorCodeInvalidConfig, "cannot create output directory", err).
			WithContext("dir", o.outputDir)
	}

	logger.Info("Starting narration", "engine", engine.Name(), "segments", len(segments), "voice", voice.String())

	for i, seg := range segments {
		var result SynthesisResult
		if err := ctx.Err(); err != nil {
			result = failed(seg, tts.NewTTSError(tts.ErrorCodeCanceled, "run canceled before this segment", err))
		} else {
			result = o.synthesize(ctx, seg, engine, voice)
		}

		if !result.Success {
			agg.Failed++
			logger.Warn("Segment failed", "segment", seg.Description, "code", result.Code, "err", result.Error)
		} else {
			logger.Info("Segment done", "segment", seg.Description, "file", filepath.Base(result.FilePath), "bytes", result.FileSize)
		}
		agg.Results = append(agg.Results, result)

		if o.progress != nil {
			o.progress(i+1, len(segments), result)
		}
	}

	logger.Info("Narration finished", "generated", agg.Succeeded(), "failed", agg.Failed)

	if !agg.Success() {
		return agg, fmt.Errorf("%w: %s", ErrNoAudio, agg.Results[0].Error)
	}
	return agg, nil
}

func (o *Orchestrator) synthesize(ctx context.Context, seg narration.Segment, engine ttypes.Engine, voice ttypes.VoiceParameters) SynthesisResult {
	// Sanitize is idempotent, so planner output passes through unchanged.
	text := narration.Sanitize(seg.Text)
	seg.Text = text
	if text == "" {
		return failed(seg, tts.NewTTSError(tts.ErrorCodeEmptyInput, "segment has no speakable text", nil))
	}

	path := filepath.Join(o.outputDir, FileName(seg, engine.Extension()))
	err := engine.Synthesize(ctx, ttypes.SynthesisRequest{
		Text:       text,
		OutputPath: path,
		Voice:      voice,
	})
	if err != nil {
		if tts.CodeOf(err) == "" {
			err = tts.NewTTSError(tts.ErrorCodeSynthesisFailed, "synthesis failed", err)
		}
		return failed(seg, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return failed(seg, tts.NewTTSError(tts.ErrorCodeSynthesisFailed, "backend reported success but wrote no file", err))
	}

	return SynthesisResult{
		Segment:           seg,
		Success:           true,
		FilePath:          path,
		FileSize:          info.Size(),
		EstimatedDuration: EstimateDuration(text),
		Preview:           Preview(text),
	}
}

func failed(seg narration.Segment, err error) SynthesisResult {
	return SynthesisResult{
		Segment: seg,
		Preview: Preview(seg.Text),
		Error:   tts.UserMessage(err),
		Code:    tts.CodeOf(err),
	}
}
