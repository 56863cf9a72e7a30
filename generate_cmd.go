package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/app"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/pipeline"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	generateEngine   string
	generateMode     string
	generatePostFile string
	generateSeed     uint64
	generateVerbose  bool

	generateCmd = &cobra.Command{
		Use:     "generate [POST]",
		Short:   "Narrate a Reddit post into audio files",
		Long:    paragraph(fmt.Sprintf("\n%s a Reddit post: the title and either the post body, the top comment or the top ten comments. POST is a post id, permalink or redd.it link. Missing values are prompted for when running in a terminal.", keyword("Narrate"))),
		Example: paragraph("rvc generate https://www.reddit.com/r/AskReddit/comments/abc123/\nrvc generate abc123 --mode top10 --seed 7\nrvc generate --post-file temp/0cc175b9c0f1b6a831c399e269772661.json --engine pyttsx3"),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runGenerate,
	}
)

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateVerbose {
		logToStderr()
	}

	req := app.Request{
		PostFile: generatePostFile,
		Engine:   generateEngine,
	}
	if len(args) > 0 {
		req.PostRef = args[0]
	}
	if cmd.Flags().Changed("seed") {
		seed := generateSeed
		req.Seed = &seed
	}

	interactive := isInteractive()
	if req.PostRef == "" && req.PostFile == "" {
		if !interactive {
			return errors.New("a post reference or --post-file is required")
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Reddit post URL or id:",
		}, &req.PostRef, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	mode, err := resolveMode(cmd, interactive)
	if err != nil {
		return err
	}
	req.Mode = mode

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg, err := application.Generate(ctx, req, printProgress)
	if agg != nil && !tts.IsFatal(err) {
		if rerr := printReport(agg); rerr != nil {
			log.Warn("Could not render report", "err", rerr)
		}
	}
	return err
}

func resolveMode(cmd *cobra.Command, interactive bool) (narration.Mode, error) {
	if cmd.Flags().Changed("mode") || !interactive {
		return narration.ParseMode(generateMode)
	}

	labels := make([]string, len(narration.Modes))
	for i, m := range narration.Modes {
		labels[i] = m.Label()
	}
	var choice int
	if err := survey.AskOne(&survey.Select{
		Message: "What should be narrated?",
		Options: labels,
	}, &choice); err != nil {
		return 0, err
	}
	return narration.Modes[choice], nil
}

func printProgress(done, total int, r pipeline.SynthesisResult) {
	mark := okStyle.Render("✓")
	detail := dimStyle.Render(r.Preview)
	if !r.Success {
		mark = failStyle.Render("✗")
		detail = failStyle.Render(r.Error)
	}
	fmt.Fprintf(os.Stderr, "[%d/%d] %s %s %s\n", done, total, mark, r.Segment.Description, detail)
}

func printReport(agg *pipeline.AggregateResult) error {
	style := styles.AutoStyle
	width := 100
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < width {
			width = w
		}
	} else {
		style = styles.NoTTYStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(pipeline.RenderMarkdown(agg))
	if err != nil {
		return fmt.Errorf("unable to render markdown: %w", err)
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

func init() {
	generateCmd.Flags().StringVarP(&generateEngine, "engine", "e", "", "synthesis backend: gtts or pyttsx3 (overrides video.voice_synthesis)")
	generateCmd.Flags().StringVarP(&generateMode, "mode", "m", narration.PostDescription.String(), "post_description, top_comment or top10_comments")
	generateCmd.Flags().StringVar(&generatePostFile, "post-file", "", "narrate a cached post JSON file instead of fetching")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "seed for the top10_comments shuffle")
	generateCmd.Flags().BoolVar(&generateVerbose, "verbose", false, "log to stderr")
}
