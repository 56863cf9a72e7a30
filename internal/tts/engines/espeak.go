package engines

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

// Voice is one voice advertised by the offline engine.
type Voice struct {
	ID       string
	Name     string
	Language string
	Gender   string // "male", "female" or ""
	Age      string
	Priority int
}

// maleIndicators are name fragments that suggest a male voice when the
// engine does not report a gender.
var maleIndicators = []string{"male", "david", "mark", "george", "james", "daniel", "alex", "fred", "michael"}

// ESpeakEngine is the offline backend. It drives eSpeak NG, which writes WAV
// and supports continuous rate and amplitude.
type ESpeakEngine struct {
	binaries []string
	timeout  time.Duration
	runner   Runner
	logger   *log.Logger
}

// ESpeakConfig holds configuration for the eSpeak NG engine.
type ESpeakConfig struct {
	// Binaries are tried in order (defaults to espeak-ng, espeak)
	Binaries []string

	// Timeout bounds one synthesis call (defaults to 60s)
	Timeout time.Duration

	Runner Runner
	Logger *log.Logger
}

// NewESpeakEngine creates a new eSpeak NG engine.
func NewESpeakEngine(config ESpeakConfig) *ESpeakEngine {
	if len(config.Binaries) == 0 {
		config.Binaries = []string{"espeak-ng", "espeak"}
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.Runner == nil {
		config.Runner = ExecRunner{}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &ESpeakEngine{
		binaries: config.Binaries,
		timeout:  config.Timeout,
		runner:   config.Runner,
		logger:   config.Logger.WithPrefix("espeak"),
	}
}

// Name implements ttypes.Engine.
func (e *ESpeakEngine) Name() string { return string(ttypes.EngineOffline) }

// Type implements ttypes.Engine.
func (e *ESpeakEngine) Type() ttypes.EngineType { return ttypes.EngineOffline }

// Extension implements ttypes.Engine.
func (e *ESpeakEngine) Extension() string { return ttypes.EngineOffline.Extension() }

func (e *ESpeakEngine) resolveBinary() (string, error) {
	var lastErr error
	for _, name := range e.binaries {
		path, err := e.runner.LookPath(name)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// IsAvailable reports whether an eSpeak binary is installed and runs.
func (e *ESpeakEngine) IsAvailable(ctx context.Context) bool {
	binary, err := e.resolveBinary()
	if err != nil {
		e.logger.Debug("eSpeak not found", "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, _, err := e.runner.Run(ctx, "", binary, "--version"); err != nil {
		e.logger.Debug("eSpeak --version failed", "binary", binary, "err", err)
		return false
	}
	return true
}

// ListVoices returns the voices for a language, or all voices when lang is empty.
func (e *ESpeakEngine) ListVoices(ctx context.Context, lang string) ([]Voice, error) {
	binary, err := e.resolveBinary()
	if err != nil {
		return nil, tts.NewTTSError(tts.ErrorCodeBackendUnavailable, "eSpeak NG is not installed", err).
			WithContext("guidance", tts.BuildESpeakInstallGuidance())
	}

	arg := "--voices"
	if lang != "" {
		arg = "--voices=" + lang
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stdout, stderr, err := e.runner.Run(ctx, "", binary, arg)
	if err != nil {
		return nil, fmt.Errorf("list voices: %w, stderr: %s", err, strings.TrimSpace(string(stderr)))
	}
	return ParseVoices(string(stdout)), nil
}

// ParseVoices parses the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en   (en 2)
func ParseVoices(out string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		pty, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}

		v := Voice{
			ID:       fields[1],
			Language: fields[1],
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Priority: pty,
		}
		if age, gender, ok := strings.Cut(fields[2], "/"); ok {
			if age != "--" {
				v.Age = age
			}
			switch strings.ToUpper(gender) {
			case "M":
				v.Gender = "male"
			case "F":
				v.Gender = "female"
			}
		}
		voices = append(voices, v)
	}
	return voices
}

// SelectVoice picks the voice to use when none is configured. It prefers a
// voice reported as male or whose name suggests one, then the first voice.
// The boolean is false when there are no voices at all.
func SelectVoice(voices []Voice) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	for _, v := range voices {
		if v.Gender == "male" {
			return v, true
		}
	}
	for _, v := range voices {
		if isMaleName(v.Name) {
			return v, true
		}
	}
	return voices[0], true
}

func isMaleName(name string) bool {
	name = strings.ToLower(name)
	if strings.Contains(name, "female") {
		return false
	}
	for _, ind := range maleIndicators {
		if strings.Contains(name, ind) {
			return true
		}
	}
	return false
}

// Synthesize converts text to a WAV file at req.OutputPath.
func (e *ESpeakEngine) Synthesize(ctx context.Context, req ttypes.SynthesisRequest) error {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return tts.NewTTSError(tts.ErrorCodeEmptyInput, "no text provided for speech generation", nil)
	}

	binary, err := e.resolveBinary()
	if err != nil {
		return tts.NewTTSError(tts.ErrorCodeBackendUnavailable, "eSpeak NG is not installed", err).
			WithContext("guidance", tts.BuildESpeakInstallGuidance())
	}

	voice := req.Voice.VoiceID
	if voice == "" {
		voices, err := e.ListVoices(ctx, req.Voice.Language)
		if err != nil {
			e.logger.Warn("Could not list voices, using engine default", "err", err)
		} else if v, ok := SelectVoice(voices); ok {
			voice = v.ID
		}
	}

	out, err := stageOutput(req.OutputPath)
	if err != nil {
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, "cannot prepare output file", err)
	}

	rateWPM := req.Voice.Rate
	if rateWPM <= 0 {
		rateWPM = tts.BaseRate
	}
	amplitude := int(math.Round(req.Voice.Volume * 100))

	args := []string{
		"--stdin",
		"-w", out.Path,
		"-s", strconv.Itoa(rateWPM),
		"-a", strconv.Itoa(amplitude),
	}
	if voice != "" {
		args = append(args, "-v", voice)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("Synthesizing", "voice", voice, "wpm", rateWPM, "amplitude", amplitude, "output", req.OutputPath)

	_, stderr, err := e.runner.Run(runCtx, text, binary, args...)
	if err != nil {
		out.Discard()
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, fmt.Sprintf("eSpeak synthesis timeout after %s", e.timeout), err)
		case errors.Is(runCtx.Err(), context.Canceled):
			return tts.NewTTSError(tts.ErrorCodeCanceled, "eSpeak synthesis canceled", err)
		}
		msg := "eSpeak failed"
		if s := strings.TrimSpace(string(stderr)); s != "" {
			msg = fmt.Sprintf("eSpeak failed: %s", s)
		}
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, msg, err)
	}

	if _, err := out.Commit(); err != nil {
		return tts.NewTTSError(tts.ErrorCodeSynthesisFailed, "eSpeak produced no audio", err)
	}
	return nil
}

// Info returns engine capabilities.
func (e *ESpeakEngine) Info() ttypes.EngineInfo {
	binary, err := e.resolveBinary()
	if err != nil {
		binary = e.binaries[0]
	}
	return ttypes.EngineInfo{
		Name:           e.Name(),
		Binary:         binary,
		Format:         e.Extension(),
		IsOnline:       false,
		ContinuousRate: true,
		VolumeControl:  true,
	}
}

// Ensure ESpeakEngine implements the Engine interface
var _ ttypes.Engine = (*ESpeakEngine)(nil)
