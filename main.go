// Package main provides the entry point for the rvc CLI application.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/polybitrockzz/reddit-video-creator/internal/app"
	"github.com/polybitrockzz/reddit-video-creator/internal/config"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/polybitrockzz/reddit-video-creator/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// skipConfig marks commands that run without loading config.toml.
const skipConfig = "rvc/skip-config"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	v           = config.NewViper()
	cfg         *config.Config
	application *app.App

	rootCmd = &cobra.Command{
		Use:   "rvc",
		Short: "Turn Reddit posts into narrated audio clips",
		Long: paragraph(
			fmt.Sprintf("\nTurn Reddit posts into %s, ready for video editing.", keyword("narrated audio clips")),
		),
		SilenceErrors:     true,
		SilenceUsage:      true,
		TraverseChildren:  true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: loadConfig,
	}
)

func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] != "" {
		return nil
	}

	path, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	configFile = path

	cfg, err = config.FromViper(v)
	if err != nil {
		return err
	}
	application = app.New(cfg)
	return nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func execute(cmd *cobra.Command, _ []string) error {
	if !isInteractive() {
		return cmd.Help()
	}
	return runTUI()
}

func runTUI() error {
	// Read environment to get debugging stuff
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	uiCfg.Theme = cfg.UI.Theme
	uiCfg.ShowProgress = cfg.UI.ShowProgress
	uiCfg.ConfigFile = configFile
	uiCfg.Version = Version

	if err := application.Prepare(); err != nil {
		return err
	}
	if _, err := ui.NewProgram(uiCfg, application, reloadApp).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// reloadApp rebuilds the configuration and App after config.toml changed.
func reloadApp() (ui.Generator, error) {
	nv := config.NewViper()
	_ = nv.BindPFlag("video.output_directory", rootCmd.PersistentFlags().Lookup("output"))
	if _, err := config.Load(nv, configFile); err != nil {
		return nil, err
	}
	c, err := config.FromViper(nv)
	if err != nil {
		return nil, err
	}
	v, cfg, application = nv, c, app.New(c)
	return application, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Could not load .env:", err)
	}

	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		log.Error("Command failed", "err", err)
		fmt.Fprintln(os.Stderr, failStyle.Render("Error:"), tts.UserMessage(err))
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	rootCmd.RunE = execute

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: first config.toml found in the search path)")
	rootCmd.PersistentFlags().String("output", "", "directory for generated audio")
	_ = v.BindPFlag("video.output_directory", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(configCmd, manCmd, generateCmd, voicesCmd, checkCmd)
}
