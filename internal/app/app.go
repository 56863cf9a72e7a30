// Package app wires configuration, the Reddit client, the planner and the
// synthesis backends into the narration workflow shared by the CLI and TUI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/config"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/pipeline"
	"github.com/polybitrockzz/reddit-video-creator/internal/reddit"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts/engines"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

// EngineFactory builds a synthesis backend.
type EngineFactory func(ttypes.EngineType, engines.Options) (ttypes.Engine, error)

// Dependencies overrides the collaborators New would build itself.
type Dependencies struct {
	HTTPClient    *http.Client
	Runner        engines.Runner
	NewEngine     EngineFactory
	RedditBaseURL string
	ProbeURL      string
	Logger        *log.Logger
}

// App runs narration jobs for one loaded configuration.
type App struct {
	cfg       *config.Config
	reddit    *reddit.Client
	cache     *reddit.PostCache
	newEngine EngineFactory
	engineOpt engines.Options
	logger    *log.Logger
}

// Request describes one narration job.
type Request struct {
	// PostRef is a post id, permalink or short link. Ignored when PostFile
	// is set.
	PostRef string

	// PostFile loads a cached post JSON file instead of fetching.
	PostFile string

	Mode narration.Mode

	// Engine overrides video.voice_synthesis when non-empty.
	Engine string

	// Seed makes the Top10Comments shuffle reproducible when set.
	Seed *uint64

	// OutputDir overrides video.output_directory when non-empty.
	OutputDir string
}

// BackendStatus reports whether one backend can be used.
type BackendStatus struct {
	Engine    ttypes.EngineType
	Info      ttypes.EngineInfo
	Available bool
	Guidance  string
}

// New returns an App using real network clients and subprocesses.
func New(cfg *config.Config) *App {
	return NewWithDependencies(cfg, Dependencies{})
}

// NewWithDependencies returns an App with the given collaborators.
func NewWithDependencies(cfg *config.Config, deps Dependencies) *App {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	newEngine := deps.NewEngine
	if newEngine == nil {
		newEngine = engines.New
	}

	return &App{
		cfg: cfg,
		reddit: reddit.NewClient(reddit.ClientConfig{
			BaseURL:           deps.RedditBaseURL,
			UserAgent:         cfg.Reddit.UserAgent,
			CommentLimit:      cfg.Reddit.CommentLimit,
			Timeout:           cfg.Reddit.Timeout,
			RequestsPerMinute: cfg.Reddit.RequestsPerMinute,
			HTTPClient:        deps.HTTPClient,
			Logger:            logger,
		}),
		cache:     reddit.NewPostCache(cfg.TempDir()),
		newEngine: newEngine,
		engineOpt: engines.Options{
			Timeout:    cfg.TextToSpeech.Timeout,
			ProbeURL:   deps.ProbeURL,
			Runner:     deps.Runner,
			HTTPClient: deps.HTTPClient,
			Logger:     logger,
		},
		logger: logger,
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Prepare creates the output and cache directories.
func (a *App) Prepare() error {
	for _, dir := range []string{a.cfg.OutputDir(), a.cfg.TempDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return tts.NewTTSError(tts.ErrorCodeInvalidConfig, "cannot create directory", err).
				WithContext("dir", dir)
		}
	}
	return nil
}

// Engine builds the backend selected by cliArg or the configuration.
func (a *App) Engine(cliArg string) (ttypes.Engine, error) {
	engineType, err := a.cfg.Engine(cliArg)
	if err != nil {
		return nil, err
	}
	return a.newEngine(engineType, a.engineOpt)
}

// LoadPost reads a post from file when given, and otherwise fetches it.
// Fetched posts are cached when processing.cache_posts is on; a cache write
// failure is logged and does not fail the load.
func (a *App) LoadPost(ctx context.Context, ref, file string) (*reddit.PostRecord, error) {
	if file != "" {
		post, err := reddit.LoadFile(config.ExpandPath(file))
		if err != nil {
			return nil, tts.NewTTSError(tts.ErrorCodeFetch, "could not load post file", err).
				WithContext("path", file)
		}
		a.logger.Debug("Loaded post from file", "path", file, "post", post.ID)
		return post, nil
	}

	post, err := a.reddit.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	if a.cfg.Processing.CachePosts {
		path, err := a.cache.Save(post)
		if err != nil {
			a.logger.Warn("Could not cache post", "post", post.ID, "err", err)
		} else {
			a.logger.Debug("Cached post", "path", path)
		}
	}
	return post, nil
}

// Plan turns a post into segments for mode.
func (a *App) Plan(post *reddit.PostRecord, mode narration.Mode, seed *uint64) ([]narration.Segment, error) {
	opts := []narration.PlannerOption{narration.WithLogger(a.logger)}
	if seed != nil {
		opts = append(opts, narration.WithSeed(*seed))
	}
	return narration.NewPlanner(opts...).Plan(post, mode)
}

// Generate runs a whole job: backend selection, voice parsing, post loading,
// planning and synthesis. The aggregate is nil only when the job failed
// before synthesis started.
func (a *App) Generate(ctx context.Context, req Request, progress pipeline.ProgressFunc) (*pipeline.AggregateResult, error) {
	engine, err := a.Engine(req.Engine)
	if err != nil {
		return nil, err
	}
	voice, err := a.cfg.Voice(a.logger)
	if err != nil {
		return nil, err
	}

	post, err := a.LoadPost(ctx, req.PostRef, req.PostFile)
	if err != nil {
		return nil, err
	}
	segments, err := a.Plan(post, req.Mode, req.Seed)
	if err != nil {
		return nil, err
	}

	if !engine.IsAvailable(ctx) {
		a.logger.Warn("Backend reports unavailable, attempting anyway", "engine", engine.Name())
	}

	outputDir := a.cfg.OutputDir()
	if req.OutputDir != "" {
		outputDir = config.ExpandPath(req.OutputDir)
	}

	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}

	a.logger.Info("Generating narration", "post", post.ID, "mode", req.Mode, "segments", len(segments))
	return pipeline.New(outputDir, opts...).Run(ctx, segments, engine, voice)
}

// Check reports the availability of both backends.
func (a *App) Check(ctx context.Context) []BackendStatus {
	var statuses []BackendStatus
	for _, engineType := range []ttypes.EngineType{ttypes.EngineGTTS, ttypes.EngineOffline} {
		status := BackendStatus{Engine: engineType}
		engine, err := a.newEngine(engineType, a.engineOpt)
		if err != nil {
			status.Guidance = err.Error()
			statuses = append(statuses, status)
			continue
		}
		if info, ok := engines.Describe(engine); ok {
			status.Info = info
		}
		status.Available = engine.IsAvailable(ctx)
		if !status.Available {
			status.Guidance = guidance(engineType, status.Info)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func guidance(engineType ttypes.EngineType, info ttypes.EngineInfo) string {
	switch engineType {
	case ttypes.EngineGTTS:
		if tts.QuickValidation(engineType).Available {
			return tts.BuildConnectivityGuidance()
		}
		return tts.BuildGTTSInstallGuidance()
	case ttypes.EngineOffline:
		return tts.BuildESpeakInstallGuidance()
	default:
		return fmt.Sprintf("unknown engine %s", info.Name)
	}
}
