package engines

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
	"golang.org/x/time/rate"
)

// DefaultProbeURL is contacted by IsAvailable to check that Google's TTS
// endpoint is reachable.
const DefaultProbeURL = "https://translate.google.com"

// GTTSLanguages is the fallback language table for the online backend.
var GTTSLanguages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
}

var gttsLanguageOrder = []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh"}

// connectionMarkers are stderr fragments gtts-cli prints when it cannot
// reach the service.
var connectionMarkers = []string{
	"connection error",
	"connectionerror",
	"failed to connect",
	"max retries exceeded",
	"name resolution",
	"name or service not known",
	"network is unreachable",
}

// GTTSEngine is the online backend. It drives gtts-cli, which produces MP3.
// Speech rate is reduced to gTTS's only control, the --slow toggle.
type GTTSEngine struct {
	binary       string
	timeout      time.Duration
	probeURL     string
	probeTimeout time.Duration

	runner      Runner
	client      *http.Client
	rateLimiter *rate.Limiter
	logger      *log.Logger
}

// GTTSConfig holds configuration for the gTTS engine.
type GTTSConfig struct {
	// Binary defaults to "gtts-cli"
	Binary string

	// Timeout bounds one synthesis call (defaults to 60s)
	Timeout time.Duration

	// ProbeURL is requested by IsAvailable (defaults to DefaultProbeURL)
	ProbeURL string

	// ProbeTimeout bounds the reachability probe (defaults to 5s)
	ProbeTimeout time.Duration

	// Rate limit requests per minute to avoid being blocked (defaults to 50)
	RequestsPerMinute int

	Runner     Runner
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewGTTSEngine creates a new gTTS engine.
func NewGTTSEngine(config GTTSConfig) *GTTSEngine {
	if config.Binary == "" {
		config.Binary = "gtts-cli"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.ProbeURL == "" {
		config.ProbeURL = DefaultProbeURL
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 5 * time.Second
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 50
	}
	if config.Runner == nil {
		config.Runner = ExecRunner{}
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	return &GTTSEngine{
		binary:       config.Binary,
		timeout:      config.Timeout,
		probeURL:     config.ProbeURL,
		probeTimeout: config.ProbeTimeout,
		runner:       config.Runner,
		client:       config.HTTPClient,
		rateLimiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
		logger:       config.Logger.WithPrefix("gtts"),
	}
}

// Name implements ttypes.Engine.
func (e *GTTSEngine) Name() string { return string(ttypes.EngineGTTS) }

// Type implements ttypes.Engine.
func (e *GTTSEngine) Type() ttypes.EngineType { return ttypes.EngineGTTS }

// Extension implements ttypes.Engine.
func (e *GTTSEngine) Extension() string { return ttypes.EngineGTTS.Extension() }

// IsAvailable reports whether gtts-cli is installed and the service answers.
func (e *GTTSEngine) IsAvailable(ctx context.Context) bool {
	if _, err := e.runner.LookPath(e.binary); err != nil {
		e.logger.Debug("gtts-cli not found", "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, e.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.probeURL, nil)
	if err != nil {
		e.logger.Debug("Invalid probe URL", "url", e.probeURL, "err", err)
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("Probe failed", "url", e.probeURL, "err", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Synthesize converts text to an MP3 file at req.OutputPath.
func (e *GTTSEngine) Synthesize(ctx context.Context, req ttypes.SynthesisRequest) error {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return tts.NewTTSError(tts.ErrorCodeEmptyInput, "no text provided for speech generation", nil)
	}

	if _, err := e.runner.LookPath(e.binary); err != nil {
		return tts.NewTTSError(tts.ErrorCodeBackendUnavailable, "gtts-cli is not installed", err).
			WithContext("guidance", tts.BuildGTTSInstallGuidance())
	}

	// Rate limit to avoid being blocked
	if err := e.rateLimiter.Wait(ctx); err != nil {
		return tts.NewTTSError(tts.ErrorCodeCanceled, "rate limit wait cancelled", err)
	}

	out, err := stageOutput(req.OutputPath)
	if err != nil {
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, "cannot prepare output file", err)
	}

	lang := req.Voice.Language
	if lang == "" {
		lang = "en"
	}
	args := []string{"-", "-l", lang}
	if req.Voice.Slow {
		args = append(args, "--slow")
	}
	args = append(args, "-o", out.Path)

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("Synthesizing", "lang", lang, "slow", req.Voice.Slow, "chars", len(text), "output", req.OutputPath)

	_, stderr, err := e.runner.Run(runCtx, text, e.binary, args...)
	if err != nil {
		out.Discard()
		return e.classify(runCtx, err, string(stderr))
	}

	if _, err := out.Commit(); err != nil {
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, "gtts-cli produced no audio", err).
			WithContext("stderr", strings.TrimSpace(string(stderr)))
	}
	return nil
}

func (e *GTTSEngine) classify(ctx context.Context, err error, stderr string) error {
	lower := strings.ToLower(stderr)
	for _, marker := range connectionMarkers {
		if strings.Contains(lower, marker) {
			return tts.NewTTSError(tts.ErrorCodeBackendUnavailable, "cannot reach Google TTS", err).
				WithContext("stderr", strings.TrimSpace(stderr)).
				WithContext("guidance", tts.BuildConnectivityGuidance())
		}
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, fmt.Sprintf("gTTS synthesis timeout after %s", e.timeout), err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return tts.NewTTSError(tts.ErrorCodeCanceled, "gTTS synthesis canceled", err)
	}

	msg := "gtts-cli failed"
	if s := strings.TrimSpace(stderr); s != "" {
		msg = fmt.Sprintf("gtts-cli failed: %s", s)
	}
	return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, msg, err)
}

// Info returns engine capabilities.
func (e *GTTSEngine) Info() ttypes.EngineInfo {
	binary := e.binary
	if path, err := e.runner.LookPath(e.binary); err == nil {
		binary = path
	}
	return ttypes.EngineInfo{
		Name:           e.Name(),
		Binary:         binary,
		Format:         e.Extension(),
		IsOnline:       true,
		ContinuousRate: false,
		VolumeControl:  false,
		Languages:      append([]string(nil), gttsLanguageOrder...),
	}
}

// Ensure GTTSEngine implements the Engine interface
var _ ttypes.Engine = (*GTTSEngine)(nil)
