// Package ttypes contains shared types and interfaces for the narration pipeline.
// This package is used to break import cycles between tts, engines and pipeline packages.
package ttypes

import (
	"context"
	"fmt"
)

// EngineType represents the synthesis backend selection
type EngineType string

const (
	// EngineGTTS represents the online gTTS backend
	EngineGTTS EngineType = "gtts"

	// EngineOffline represents the offline local engine (eSpeak NG)
	EngineOffline EngineType = "pyttsx3"

	// EngineNone represents no engine selected
	EngineNone EngineType = ""
)

// String returns the configuration name of the engine.
func (e EngineType) String() string {
	if e == EngineNone {
		return "none"
	}
	return string(e)
}

// Extension returns the audio container extension the engine produces.
func (e EngineType) Extension() string {
	switch e {
	case EngineGTTS:
		return "mp3"
	case EngineOffline:
		return "wav"
	default:
		return ""
	}
}

// IsOnline reports whether the engine needs network access.
func (e EngineType) IsOnline() bool {
	return e == EngineGTTS
}

// VoiceParameters holds validated, typed voice settings for one pipeline run.
type VoiceParameters struct {
	// Language is the language code (e.g. "en", "es")
	Language string

	// VoiceID optionally pins an offline voice, bypassing voice selection
	VoiceID string

	// Speed is the multiplier applied to the base speech rate (0.5 to 2.0)
	Speed float64

	// Rate is the speech rate in words per minute
	Rate int

	// Volume is the output volume (0.0 to 1.0)
	Volume float64

	// Slow is the discrete speed toggle for backends without continuous rate
	Slow bool
}

// String returns a compact description for logs and settings screens.
func (v VoiceParameters) String() string {
	voice := v.VoiceID
	if voice == "" {
		voice = "auto"
	}
	return fmt.Sprintf("lang=%s voice=%s rate=%dwpm volume=%.2f slow=%t", v.Language, voice, v.Rate, v.Volume, v.Slow)
}

// SynthesisRequest is one unit of work for a backend.
type SynthesisRequest struct {
	// Text is the sanitized text to speak
	Text string

	// OutputPath is the final location of the audio file
	OutputPath string

	// Voice holds the voice settings
	Voice VoiceParameters
}

// Engine defines the contract for synthesis backends.
// Implementations include gTTS (online) and eSpeak NG (offline).
type Engine interface {
	// Name returns the engine identifier used in results and logs.
	Name() string

	// Type returns the engine variant.
	Type() EngineType

	// Extension returns the file extension (without dot) of produced audio.
	Extension() string

	// IsAvailable reports whether the engine can be used right now.
	// It must not write files or otherwise leave side effects.
	IsAvailable(ctx context.Context) bool

	// Synthesize writes exactly one audio file at req.OutputPath.
	// On failure no file is left at req.OutputPath.
	Synthesize(ctx context.Context, req SynthesisRequest) error
}

// EngineInfo describes engine capabilities.
type EngineInfo struct {
	Name           string   // Engine name (e.g., "gtts", "pyttsx3")
	Binary         string   // Resolved executable
	Format         string   // Output container
	IsOnline       bool     // Whether the engine requires internet
	ContinuousRate bool     // Whether rate is continuous or a slow toggle
	VolumeControl  bool     // Whether volume is honored
	Languages      []string // Known language codes, may be empty
}
