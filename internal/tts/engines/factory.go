package engines

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

// Options configures whichever backend New builds.
type Options struct {
	Timeout    time.Duration
	ProbeURL   string
	Runner     Runner
	HTTPClient *http.Client
	Logger     *log.Logger
}

// New returns the backend for engineType.
func New(engineType ttypes.EngineType, opts Options) (ttypes.Engine, error) {
	switch engineType {
	case ttypes.EngineGTTS:
		return NewGTTSEngine(GTTSConfig{
			Timeout:    opts.Timeout,
			ProbeURL:   opts.ProbeURL,
			Runner:     opts.Runner,
			HTTPClient: opts.HTTPClient,
			Logger:     opts.Logger,
		}), nil
	case ttypes.EngineOffline:
		return NewESpeakEngine(ESpeakConfig{
			Timeout: opts.Timeout,
			Runner:  opts.Runner,
			Logger:  opts.Logger,
		}), nil
	case ttypes.EngineNone:
		return nil, tts.ErrNoEngineConfigured
	default:
		return nil, fmt.Errorf("%w: %s", tts.ErrInvalidEngine, engineType)
	}
}

// Describe returns capabilities for engines that expose them.
func Describe(e ttypes.Engine) (ttypes.EngineInfo, bool) {
	d, ok := e.(interface{ Info() ttypes.EngineInfo })
	if !ok {
		return ttypes.EngineInfo{}, false
	}
	return d.Info(), true
}
