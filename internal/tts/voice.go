package tts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
	"golang.org/x/text/language"
)

// VoiceSettings is the raw, string-typed voice configuration as stored on disk.
type VoiceSettings struct {
	Language string
	VoiceID  string
	Speed    string
	Volume   string
}

// ParseVoiceParameters converts raw settings into typed VoiceParameters.
//
// Unparseable numbers and unknown language tags are INVALID_CONFIG errors.
// Parseable numbers outside their range are clamped and a warning is logged.
func ParseVoiceParameters(s VoiceSettings, logger *log.Logger) (ttypes.VoiceParameters, error) {
	if logger == nil {
		logger = log.Default()
	}

	lang, err := normalizeLanguage(s.Language)
	if err != nil {
		return ttypes.VoiceParameters{}, err
	}

	speed, err := parseFloatSetting("text_to_speech.speed", s.Speed, DefaultSpeed)
	if err != nil {
		return ttypes.VoiceParameters{}, err
	}
	if clamped := ClampSpeed(speed); clamped != speed {
		logger.Warn("Speed out of range, clamped", "value", speed, "clamped", clamped)
		speed = clamped
	}

	volume, err := parseFloatSetting("text_to_speech.volume", s.Volume, DefaultVolume)
	if err != nil {
		return ttypes.VoiceParameters{}, err
	}
	if clamped := ClampVolume(volume); clamped != volume {
		logger.Warn("Volume out of range, clamped", "value", volume, "clamped", clamped)
		volume = clamped
	}

	return ttypes.VoiceParameters{
		Language: lang,
		VoiceID:  strings.TrimSpace(s.VoiceID),
		Speed:    speed,
		Rate:     RateForSpeed(speed),
		Volume:   volume,
		Slow:     SlowForSpeed(speed),
	}, nil
}

func parseFloatSetting(key, raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewTTSError(ErrorCodeInvalidConfig, fmt.Sprintf("%s must be a number, got %q", key, raw), err).
			WithContext("key", key)
	}
	return v, nil
}

// normalizeLanguage validates a language code, defaulting to "en".
// Case is preserved for region subtags, e.g. "zh-CN" stays usable by gTTS.
func normalizeLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "en", nil
	}
	if _, err := language.Parse(code); err != nil {
		return "", NewTTSError(ErrorCodeInvalidConfig, fmt.Sprintf("text_to_speech.voice %q is not a valid language code", code), err).
			WithContext("key", "text_to_speech.voice")
	}
	return code, nil
}
