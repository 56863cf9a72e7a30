package engines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

func newTestGTTS(r *fakeRunner, probeURL string) *GTTSEngine {
	return NewGTTSEngine(GTTSConfig{
		Runner:            r,
		ProbeURL:          probeURL,
		RequestsPerMinute: 60000,
	})
}

func TestGTTSEngine_Synthesize(t *testing.T) {
	tests := []struct {
		name      string
		installed bool
		text      string
		voice     ttypes.VoiceParameters
		handler   func(string, []string, string) (string, string, error)
		wantErr   error
		wantFile  bool
		wantSlow  bool
	}{
		{
			name:      "success",
			installed: true,
			text:      "Today I learned",
			voice:     ttypes.VoiceParameters{Language: "es"},
			handler:   writeTo("-o", "ID3 fake mp3"),
			wantFile:  true,
		},
		{
			name:      "slow speech",
			installed: true,
			text:      "Slowly now",
			voice:     ttypes.VoiceParameters{Language: "en", Slow: true},
			handler:   writeTo("-o", "ID3 fake mp3"),
			wantFile:  true,
			wantSlow:  true,
		},
		{
			name:      "blank text",
			installed: true,
			text:      "  \n ",
			wantErr:   tts.ErrEmptyInput,
		},
		{
			name:      "not installed",
			installed: false,
			text:      "hello",
			wantErr:   tts.ErrBackendUnavailable,
		},
		{
			name:      "connection error",
			installed: true,
			text:      "hello",
			handler: func(_ string, args []string, _ string) (string, string, error) {
				_ = os.WriteFile(argValue(args, "-o"), []byte("partial"), 0o644)
				return "", "gTTSError: Connection error during token calculation", errors.New("exit status 1")
			},
			wantErr: tts.ErrBackendUnavailable,
		},
		{
			name:      "other failure",
			installed: true,
			text:      "hello",
			handler: func(_ string, args []string, _ string) (string, string, error) {
				_ = os.WriteFile(argValue(args, "-o"), []byte("partial"), 0o644)
				return "", "ValueError: Language not supported: xx", errors.New("exit status 2")
			},
			wantErr: tts.ErrSynthesisFailed,
		},
		{
			name:      "empty output",
			installed: true,
			text:      "hello",
			handler: func(string, []string, string) (string, string, error) {
				return "", "", nil
			},
			wantErr: tts.ErrSynthesisFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRunner()
			if tt.installed {
				r = newFakeRunner("gtts-cli")
			}
			r.handler = tt.handler

			dir := t.TempDir()
			output := filepath.Join(dir, "audio_0123456789ab_title.mp3")

			err := newTestGTTS(r, "").Synthesize(context.Background(), ttypes.SynthesisRequest{
				Text:       tt.text,
				OutputPath: output,
				Voice:      tt.voice,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Synthesize() error = %v, want %v", err, tt.wantErr)
				}
				if got := dirEntries(t, dir); len(got) != 0 {
					t.Errorf("files left after failure: %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}

			if got := dirEntries(t, dir); len(got) != 1 || got[0] != filepath.Base(output) {
				t.Errorf("directory = %v, want only %s", got, filepath.Base(output))
			}

			call := r.lastCall()
			if call.stdin != tt.text {
				t.Errorf("stdin = %q, want %q", call.stdin, tt.text)
			}
			if len(call.args) == 0 || call.args[0] != "-" {
				t.Errorf("args = %v, want text read from stdin", call.args)
			}
			if got := argValue(call.args, "-l"); got != tt.voice.Language {
				t.Errorf("-l = %q, want %q", got, tt.voice.Language)
			}
			if got := hasArg(call.args, "--slow"); got != tt.wantSlow {
				t.Errorf("--slow present = %v, want %v", got, tt.wantSlow)
			}
		})
	}
}

func TestGTTSEngine_DefaultLanguage(t *testing.T) {
	r := newFakeRunner("gtts-cli")
	r.handler = writeTo("-o", "ID3")

	output := filepath.Join(t.TempDir(), "a.mp3")
	if err := newTestGTTS(r, "").Synthesize(context.Background(), ttypes.SynthesisRequest{Text: "hi", OutputPath: output}); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got := argValue(r.lastCall().args, "-l"); got != "en" {
		t.Errorf("-l = %q, want en", got)
	}
}

func TestGTTSEngine_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe method = %s, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name      string
		installed bool
		probeURL  string
		want      bool
	}{
		{"installed and reachable", true, server.URL, true},
		{"not installed", false, server.URL, false},
		{"service error", true, failing.URL, false},
		{"unreachable", true, closedURL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRunner()
			if tt.installed {
				r = newFakeRunner("gtts-cli")
			}
			e := newTestGTTS(r, tt.probeURL)
			if got := e.IsAvailable(context.Background()); got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
			if r.callCount() != 0 {
				t.Errorf("IsAvailable() ran %d commands, want none", r.callCount())
			}
		})
	}
}

func TestGTTSEngine_Info(t *testing.T) {
	e := newTestGTTS(newFakeRunner("gtts-cli"), "")
	info := e.Info()

	if info.Name != "gtts" {
		t.Errorf("Info().Name = %q, want gtts", info.Name)
	}
	if info.Format != "mp3" {
		t.Errorf("Info().Format = %q, want mp3", info.Format)
	}
	if !info.IsOnline {
		t.Error("Info().IsOnline = false, want true")
	}
	if info.ContinuousRate {
		t.Error("Info().ContinuousRate = true, want false")
	}
	if len(info.Languages) != len(GTTSLanguages) {
		t.Errorf("Info().Languages has %d entries, want %d", len(info.Languages), len(GTTSLanguages))
	}
	if info.Binary != "/usr/bin/gtts-cli" {
		t.Errorf("Info().Binary = %q, want /usr/bin/gtts-cli", info.Binary)
	}
}
