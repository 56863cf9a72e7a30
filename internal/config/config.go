// Package config loads rvc settings from config.toml, the environment and
// command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/internal/ttypes"
	"github.com/spf13/viper"
)

const (
	// AppName names the per-user config, cache and log directories.
	AppName = "reddit-video-creator"

	// FileName is the config file looked up in every search directory.
	FileName = "config.toml"

	// EnvPrefix prefixes environment overrides, e.g. RVC_VIDEO_VOICE_SYNTHESIS.
	EnvPrefix = "RVC"
)

// Config holds every setting the pipeline reads.
type Config struct {
	Reddit       RedditConfig       `mapstructure:"reddit"`
	Video        VideoConfig        `mapstructure:"video"`
	TextToSpeech TextToSpeechConfig `mapstructure:"text_to_speech"`
	Processing   ProcessingConfig   `mapstructure:"processing"`
	UI           UIConfig           `mapstructure:"ui"`
}

// RedditConfig configures post fetching.
type RedditConfig struct {
	UserAgent         string        `mapstructure:"user_agent"`
	CommentLimit      int           `mapstructure:"comment_limit"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// VideoConfig selects the backend and where audio goes.
type VideoConfig struct {
	OutputDirectory string `mapstructure:"output_directory"`
	VoiceSynthesis  string `mapstructure:"voice_synthesis"`
}

// TextToSpeechConfig holds the raw voice settings. Speed and volume stay
// strings until Voice parses them.
type TextToSpeechConfig struct {
	Voice   string        `mapstructure:"voice"`
	VoiceID string        `mapstructure:"voice_id"`
	Speed   string        `mapstructure:"speed"`
	Volume  string        `mapstructure:"volume"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProcessingConfig configures the post cache.
type ProcessingConfig struct {
	TempDirectory string `mapstructure:"temp_directory"`
	CachePosts    bool   `mapstructure:"cache_posts"`
}

// UIConfig configures the terminal front-end.
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	ShowProgress bool   `mapstructure:"show_progress"`
}

type setting struct {
	key   string
	value any
}

// defaults is the single source for viper defaults and the generated file.
var defaults = []setting{
	{"reddit.user_agent", "RedditVideoCreator:v1.0 (by /u/your_username)"},
	{"reddit.comment_limit", 100},
	{"reddit.timeout", "15s"},
	{"reddit.requests_per_minute", 30},
	{"video.output_directory", "output/"},
	{"video.voice_synthesis", "gtts"},
	{"text_to_speech.voice", "en"},
	{"text_to_speech.voice_id", ""},
	{"text_to_speech.speed", "1.0"},
	{"text_to_speech.volume", "0.8"},
	{"text_to_speech.timeout", "60s"},
	{"processing.temp_directory", "temp/"},
	{"processing.cache_posts", true},
	{"ui.theme", "dark"},
	{"ui.show_progress", true},
}

// NewViper returns a viper instance with rvc defaults and environment
// overrides registered.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every known key with its default value.
func SetDefaults(v *viper.Viper) {
	for _, s := range defaults {
		v.SetDefault(s.key, s.value)
	}
}

// Default returns the configuration used when no file sets anything.
func Default() *Config {
	cfg, err := FromViper(NewViper())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// SearchPaths returns the directories searched for config.toml, in order.
func SearchPaths() ([]string, error) {
	scope := gap.NewScope(gap.User, AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, AppName)}, dirs...)
	}
	if c := os.Getenv(EnvPrefix + "_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return append(dirs, "."), nil
}

// Load reads the config file into v. An explicit path wins over the search
// directories. When no file exists a default one is written first. Load
// returns the path of the file in use.
func Load(v *viper.Viper, explicit string) (string, error) {
	if explicit != "" {
		path := ExpandPath(explicit)
		if err := EnsureFile(path); err != nil {
			return "", err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", parseError(path, err)
		}
		return path, nil
	}

	dirs, err := SearchPaths()
	if err != nil {
		return "", err
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("toml")

	err = v.ReadInConfig()
	if err == nil {
		log.Debug("Using configuration file", "path", v.ConfigFileUsed())
		return v.ConfigFileUsed(), nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return "", parseError(v.ConfigFileUsed(), err)
	}

	path := filepath.Join(dirs[0], FileName)
	if err := WriteDefault(path); err != nil {
		return "", err
	}
	log.Info("Created default configuration", "path", path)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", parseError(path, err)
	}
	return path, nil
}

func parseError(path string, err error) error {
	return tts.NewTTSError(tts.ErrorCodeInvalidConfig, "could not parse configuration file", err).
		WithContext("path", path)
}

// EnsureFile writes the default config to path unless a file is already there.
func EnsureFile(path string) error {
	if ext := filepath.Ext(path); ext != ".toml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '.toml'", ext)
	}
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return WriteDefault(path)
	}
	if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

// WriteDefault writes a config file holding every default value.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString("# reddit-video-creator configuration\n\n"); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(defaultDocument()); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// defaultDocument nests the dotted default keys into TOML tables.
func defaultDocument() map[string]map[string]any {
	doc := make(map[string]map[string]any)
	for _, s := range defaults {
		table, key, _ := strings.Cut(s.key, ".")
		if doc[table] == nil {
			doc[table] = make(map[string]any)
		}
		doc[table][key] = s.value
	}
	return doc
}

// Keys returns every known setting key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for _, s := range defaults {
		keys = append(keys, s.key)
	}
	sort.Strings(keys)
	return keys
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, tts.NewTTSError(tts.ErrorCodeInvalidConfig, "could not decode configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no sensible clamp.
func (c *Config) Validate() error {
	invalid := func(key string, value any, msg string) error {
		return tts.NewTTSError(tts.ErrorCodeInvalidConfig, msg, nil).
			WithContext("key", key).
			WithContext("value", value)
	}

	switch {
	case c.Reddit.CommentLimit < 1:
		return invalid("reddit.comment_limit", c.Reddit.CommentLimit, "comment limit must be positive")
	case c.Reddit.RequestsPerMinute < 1:
		return invalid("reddit.requests_per_minute", c.Reddit.RequestsPerMinute, "request rate must be positive")
	case c.Reddit.Timeout <= 0:
		return invalid("reddit.timeout", c.Reddit.Timeout, "timeout must be positive")
	case c.TextToSpeech.Timeout <= 0:
		return invalid("text_to_speech.timeout", c.TextToSpeech.Timeout, "timeout must be positive")
	case strings.TrimSpace(c.Video.OutputDirectory) == "":
		return invalid("video.output_directory", c.Video.OutputDirectory, "output directory must be set")
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return invalid("ui.theme", c.UI.Theme, "theme must be dark, light or auto")
	}
	return nil
}

// Engine resolves the backend, preferring cliArg over video.voice_synthesis.
func (c *Config) Engine(cliArg string) (ttypes.EngineType, error) {
	return tts.ValidateEngineSelection(cliArg, c.Video.VoiceSynthesis)
}

// Voice parses the text_to_speech settings into typed voice parameters.
func (c *Config) Voice(logger *log.Logger) (ttypes.VoiceParameters, error) {
	return tts.ParseVoiceParameters(tts.VoiceSettings{
		Language: c.TextToSpeech.Voice,
		VoiceID:  c.TextToSpeech.VoiceID,
		Speed:    c.TextToSpeech.Speed,
		Volume:   c.TextToSpeech.Volume,
	}, logger)
}

// OutputDir returns the expanded audio output directory.
func (c *Config) OutputDir() string {
	return ExpandPath(c.Video.OutputDirectory)
}

// TempDir returns the expanded post cache directory.
func (c *Config) TempDir() string {
	return ExpandPath(c.Processing.TempDirectory)
}

// ExpandPath expands environment variables and a leading ~.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if p, err := homedir.Expand(path); err == nil {
		return p
	}
	return path
}

// LogPath returns the default log file location.
func LogPath() (string, error) {
	return gap.NewScope(gap.User, AppName).LogPath("rvc.log")
}
