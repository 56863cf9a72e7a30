package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/config"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/pipeline"
	"github.com/polybitrockzz/reddit-video-creator/internal/reddit"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts/engines"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
)

const page = `[
  {"kind": "Listing", "data": {"children": [
    {"kind": "t3", "data": {"id": "abc123", "title": "Today I learned", "author": "op",
      "selftext": "Body text.", "score": 10, "num_comments": 2}}
  ]}},
  {"kind": "Listing", "data": {"children": [
    {"kind": "t1", "data": {"id": "c1", "author": "alice", "body": "Low comment", "score": 5}},
    {"kind": "t1", "data": {"id": "c2", "author": "bob", "body": "High comment", "score": 50}}
  ]}}
]`

type fakeEngine struct {
	engineType ttypes.EngineType
	available  bool
	texts      []string
}

func (f *fakeEngine) Name() string { return string(f.engineType) }
func (f *fakeEngine) Type() ttypes.EngineType { return f.engineType }
func (f *fakeEngine) Extension() string { return f.engineType.Extension() }
func (f *fakeEngine) IsAvailable(context.Context) bool { return f.available }
func (f *fakeEngine) Info() ttypes.EngineInfo { return ttypes.EngineInfo{Name: f.Name()} }

func (f *fakeEngine) Synthesize(_ context.Context, req ttypes.SynthesisRequest) error {
	f.texts = append(f.texts, req.Text)
	return os.WriteFile(req.OutputPath, []byte("ID3"), 0o644)
}

type fixture struct {
	app     *App
	cfg     *config.Config
	engines map[ttypes.EngineType]*fakeEngine
	fetches int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{engines: map[ttypes.EngineType]*fakeEngine{
		ttypes.EngineGTTS:    {engineType: ttypes.EngineGTTS, available: true},
		ttypes.EngineOffline: {engineType: ttypes.EngineOffline},
	}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.fetches++
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	f.cfg = config.Default()
	f.cfg.Video.OutputDirectory = filepath.Join(dir, "output")
	f.cfg.Processing.TempDirectory = filepath.Join(dir, "temp")
	f.cfg.Reddit.RequestsPerMinute = 60000

	f.app = NewWithDependencies(f.cfg, Dependencies{
		RedditBaseURL: server.URL,
		Logger:        log.New(io.Discard),
		NewEngine: func(engineType ttypes.EngineType, _ engines.Options) (ttypes.Engine, error) {
			if e, ok := f.engines[engineType]; ok {
				return e, nil
			}
			return engines.New(engineType, engines.Options{})
		},
	})
	return f
}

func TestApp_Generate(t *testing.T) {
	f := newFixture(t)

	var progress []int
	agg, err := f.app.Generate(context.Background(), Request{
		PostRef: "abc123",
		Mode:    narration.TopComment,
	}, func(done, total int, _ pipeline.SynthesisResult) {
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if agg.Succeeded() != 2 || agg.Engine != "gtts" {
		t.Errorf("Generate() succeeded = %d on %s, want 2 on gtts", agg.Succeeded(), agg.Engine)
	}
	if got := f.engines[ttypes.EngineGTTS].texts; len(got) != 2 || got[1] != "High comment" {
		t.Errorf("narrated %q, want title then the highest scored comment", got)
	}
	if len(progress) != 2 {
		t.Errorf("progress called %d times, want 2", len(progress))
	}
	for _, r := range agg.Results {
		if filepath.Dir(r.FilePath) != f.cfg.OutputDir() {
			t.Errorf("file %s not in output directory", r.FilePath)
		}
	}

	cached := reddit.NewPostCache(f.cfg.TempDir()).Path("op", "abc123")
	if _, err := os.Stat(cached); err != nil {
		t.Errorf("post was not cached: %v", err)
	}
}

func TestApp_GenerateFromFile(t *testing.T) {
	f := newFixture(t)

	post := &reddit.PostRecord{ID: "xyz", Title: "Saved post", Author: "someone", Body: "Saved body."}
	path, err := reddit.NewPostCache(t.TempDir()).Save(post)
	if err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(t.TempDir(), "elsewhere")
	agg, err := f.app.Generate(context.Background(), Request{
		PostFile:  path,
		Mode:      narration.PostDescription,
		Engine:    "offline",
		OutputDir: outDir,
	}, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if f.fetches != 0 {
		t.Errorf("fetched %d times, want 0", f.fetches)
	}
	if agg.Engine != "pyttsx3" || agg.OutputDir != outDir {
		t.Errorf("Generate() engine/dir = %s/%s", agg.Engine, agg.OutputDir)
	}
	if agg.PostID != "xyz" {
		t.Errorf("PostID = %q, want xyz", agg.PostID)
	}
}

func TestApp_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		setup   func(*config.Config)
		wantErr error
	}{
		{
			name:    "unknown engine",
			req:     Request{PostRef: "abc123", Engine: "festival"},
			wantErr: tts.ErrInvalidEngine,
		},
		{
			name:    "no engine configured",
			req:     Request{PostRef: "abc123"},
			setup:   func(c *config.Config) { c.Video.VoiceSynthesis = "" },
			wantErr: tts.ErrNoEngineConfigured,
		},
		{
			name:    "bad volume",
			req:     Request{PostRef: "abc123"},
			setup:   func(c *config.Config) { c.TextToSpeech.Volume = "loud" },
			wantErr: tts.ErrInvalidConfig,
		},
		{
			name:    "bad reference",
			req:     Request{PostRef: "https://example.com/nothing"},
			wantErr: tts.ErrFetch,
		},
		{
			name:    "missing post file",
			req:     Request{PostFile: "/nonexistent/post.json"},
			wantErr: tts.ErrFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f.cfg)
			}
			agg, err := f.app.Generate(context.Background(), tt.req, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
			if agg != nil {
				t.Errorf("Generate() aggregate = %+v, want nil before synthesis", agg)
			}
		})
	}
}

func TestApp_Check(t *testing.T) {
	f := newFixture(t)

	statuses := f.app.Check(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("Check() returned %d statuses, want 2", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Guidance != "" {
		t.Errorf("gtts status = %+v, want available without guidance", statuses[0])
	}
	if statuses[1].Available || statuses[1].Guidance == "" {
		t.Errorf("pyttsx3 status = %+v, want unavailable with guidance", statuses[1])
	}
}

func TestApp_Prepare(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	for _, dir := range []string{f.cfg.OutputDir(), f.cfg.TempDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("directory %s not created", dir)
		}
	}
}
