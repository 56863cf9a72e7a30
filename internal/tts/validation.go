package tts

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

// ValidationResult contains the result of engine validation
type ValidationResult struct {
	// Engine is the validated engine type
	Engine ttypes.EngineType

	// Available indicates if the engine is available and configured
	Available bool

	// Error contains any validation error
	Error error

	// Guidance provides setup instructions if validation failed
	Guidance string

	// Details contains additional validation information
	Details map[string]string
}

// ValidateEngineSelection resolves the backend identifier.
// The CLI argument takes precedence over the configured value. Matching is
// case-insensitive and accepts the aliases used by older configuration files.
func ValidateEngineSelection(cliArg string, configured string) (ttypes.EngineType, error) {
	engineType := strings.TrimSpace(cliArg)
	if engineType == "" {
		engineType = strings.TrimSpace(configured)
	}

	if engineType == "" {
		return ttypes.EngineNone, fmt.Errorf("%w\n\nPlease specify an engine:\n  rvc generate --engine gtts <post>     # Google TTS (online)\n  rvc generate --engine pyttsx3 <post>  # eSpeak NG (offline)\n\nOr set a default in config.toml:\n  [video]\n  voice_synthesis = \"gtts\"", ErrNoEngineConfigured)
	}

	switch strings.ToLower(engineType) {
	case "gtts", "google", "online":
		return ttypes.EngineGTTS, nil
	case "pyttsx3", "espeak", "espeak-ng", "offline":
		return ttypes.EngineOffline, nil
	default:
		return ttypes.EngineNone, fmt.Errorf("%w: %s\n\nSupported engines:\n  - gtts (Google TTS, online)\n  - pyttsx3 (eSpeak NG, offline)", ErrInvalidEngine, engineType)
	}
}

// QuickValidation performs a fast binary lookup without running anything.
func QuickValidation(engineType ttypes.EngineType) *ValidationResult {
	result := &ValidationResult{
		Engine:  engineType,
		Details: make(map[string]string),
	}

	switch engineType {
	case ttypes.EngineGTTS:
		result.Details["engine"] = "Google TTS (gTTS - Free)"
		path, err := exec.LookPath("gtts-cli")
		if err != nil {
			result.Error = fmt.Errorf("gTTS not found in PATH: %w", err)
			result.Guidance = BuildGTTSInstallGuidance()
			return result
		}
		result.Details["gtts_path"] = path

	case ttypes.EngineOffline:
		result.Details["engine"] = "eSpeak NG (Offline TTS)"
		path, err := exec.LookPath("espeak-ng")
		if err != nil {
			path, err = exec.LookPath("espeak")
		}
		if err != nil {
			result.Error = fmt.Errorf("eSpeak NG not found in PATH: %w", err)
			result.Guidance = BuildESpeakInstallGuidance()
			return result
		}
		result.Details["binary_path"] = path

	case ttypes.EngineNone:
		result.Error = ErrNoEngineConfigured
		result.Guidance = "Please specify a TTS engine with --engine or in config.toml"
		return result

	default:
		result.Error = fmt.Errorf("%w: %s", ErrInvalidEngine, engineType)
		result.Guidance = "Supported engines: gtts, pyttsx3"
		return result
	}

	result.Available = true
	return result
}

// BuildGTTSInstallGuidance provides instructions for installing gTTS
func BuildGTTSInstallGuidance() string {
	return `gTTS (Google Text-to-Speech) is not installed. To install:

1. Install via pip:
   pip install gtts

   # Or with pipx (recommended):
   pipx install gtts

2. Verify installation:
   gtts-cli --help

3. No API key required - gTTS uses Google Translate's free TTS service

Note: gTTS requires an internet connection to function.`
}

// BuildESpeakInstallGuidance provides instructions for installing eSpeak NG
func BuildESpeakInstallGuidance() string {
	return `eSpeak NG is not installed. To install:

# Ubuntu/Debian
sudo apt install espeak-ng

# Fedora
sudo dnf install espeak-ng

# Arch Linux
sudo pacman -S espeak-ng

# macOS (Homebrew)
brew install espeak-ng

Verify installation:
  espeak-ng --voices=en`
}

// BuildConnectivityGuidance explains how to diagnose an unreachable online backend
func BuildConnectivityGuidance() string {
	return `gTTS could not reach Google's TTS service. This could indicate:

1. No internet connection - gTTS requires online access
2. Network firewall blocking requests
3. Rate limiting from Google

Try testing manually:
  gtts-cli "Hello world" -l en -o test.mp3

Or switch to the offline engine:
  [video]
  voice_synthesis = "pyttsx3"`
}
