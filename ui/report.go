package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	gstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/polybitrockzz/reddit-video-creator/internal/pipeline"
)

// renderReport renders the run summary with glamour for the result pager.
func renderReport(cfg Config, agg *pipeline.AggregateResult, width int) tea.Cmd {
	md := pipeline.RenderMarkdown(agg)
	return func() tea.Msg {
		out, err := glamourRender(cfg, md, width)
		if err != nil {
			log.Error("error rendering with Glamour", "error", err)
			return reportRenderedMsg(md)
		}
		return reportRenderedMsg(out)
	}
}

func glamourRender(cfg Config, markdown string, width int) (string, error) {
	if !cfg.GlamourEnabled {
		return markdown, nil
	}

	style := gstyles.DarkStyle
	if !isDark(cfg.Theme) {
		style = gstyles.LightStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("error creating glamour renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return out, nil
}
