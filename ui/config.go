package ui

// Config contains TUI-specific configuration.
type Config struct {
	Theme        string
	ShowProgress bool
	ConfigFile   string
	Version      string

	// For debugging the UI
	AltScreen      bool `env:"RVC_ALT_SCREEN"     envDefault:"true"`
	GlamourEnabled bool `env:"RVC_ENABLE_GLAMOUR" envDefault:"true"`
}
