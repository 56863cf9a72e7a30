package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
	"github.com/polybitrockzz/reddit-video-creator/internal/pipeline"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts"
)

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Reddit Video Creator"))
	b.WriteString("\n\n")

	switch m.state {
	case stateMenu:
		m.menuView(&b)
	case stateInput:
		m.inputView(&b)
	case stateMode:
		m.modeView(&b)
	case stateRunning:
		m.runningView(&b)
	case stateResult:
		m.resultView(&b)
	case stateSettings:
		m.settingsView(&b)
	case stateCredits:
		m.creditsView(&b)
	}

	if m.statusMessage != "" {
		b.WriteString("\n" + m.styles.status.Render(m.statusMessage))
	}
	return m.styles.app.Render(b.String())
}

func (m model) list(b *strings.Builder, items []string, selected int) {
	for i, item := range items {
		if i == selected {
			b.WriteString(m.styles.selected.Render("› " + item))
		} else {
			b.WriteString(m.styles.item.Render("  " + item))
		}
		b.WriteString("\n")
	}
}

func (m model) help(b *strings.Builder, s string) {
	b.WriteString(m.styles.help.Render(s))
}

func (m model) menuView(b *strings.Builder) {
	m.list(b, menuItems, m.menuIndex)
	m.help(b, "↑/↓ navigate • enter select • q quit")
}

func (m model) inputView(b *strings.Builder) {
	b.WriteString("Reddit post URL or id\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	m.help(b, "enter continue • esc back")
}

func (m model) modeView(b *strings.Builder) {
	b.WriteString("What should be narrated?\n")
	b.WriteString(m.styles.subtle.Render(m.postRef))
	b.WriteString("\n\n")

	labels := make([]string, len(narration.Modes))
	for i, mode := range narration.Modes {
		labels[i] = fmt.Sprintf("%d. %s", i+1, mode.Label())
	}
	m.list(b, labels, m.modeIndex)
	m.help(b, "↑/↓ navigate • 1-3 or enter start • esc back")
}

func (m model) runningView(b *strings.Builder) {
	fmt.Fprintf(b, "%s Generating %s", m.spinner.View(), narration.Modes[m.modeIndex].Label())
	if m.total > 0 {
		fmt.Fprintf(b, " (%d/%d)", len(m.progress), m.total)
	}
	b.WriteString("\n\n")

	if m.cfg.ShowProgress {
		for _, r := range m.progress {
			b.WriteString(m.resultLine(r))
			b.WriteString("\n")
		}
	}
	m.help(b, "esc cancel")
}

func (m model) resultLine(r pipeline.SynthesisResult) string {
	if !r.Success {
		return m.styles.fail.Render("✗ ") + r.Segment.Description + " " + m.styles.fail.Render(r.Error)
	}
	return m.styles.ok.Render("✓ ") + r.Segment.Description + " " +
		m.styles.subtle.Render(fmt.Sprintf("%s · %s · %s", filepath.Base(r.FilePath), humanize.Bytes(uint64(r.FileSize)), r.EstimatedDuration))
}

func (m model) resultView(b *strings.Builder) {
	if m.err != nil && m.result == nil {
		b.WriteString(m.styles.fail.Render("Error: " + tts.UserMessage(m.err)))
		b.WriteString("\n")
		m.help(b, "esc menu • q quit")
		return
	}
	if m.result != nil {
		summary := fmt.Sprintf("%d of %d files generated · %s · %s",
			m.result.Succeeded(), len(m.result.Results),
			humanize.Bytes(uint64(m.result.TotalSize())), m.result.OutputDir)
		if m.result.Success() {
			b.WriteString(m.styles.ok.Render(summary))
		} else {
			b.WriteString(m.styles.fail.Render(summary))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.viewport.View())
	m.help(b, "↑/↓ scroll • c copy output path • esc menu • q quit")
}

func (m model) settingsView(b *strings.Builder) {
	cfg := m.gen.Config()
	rows := [][2]string{
		{"Engine", cfg.Video.VoiceSynthesis},
		{"Language", cfg.TextToSpeech.Voice},
		{"Voice", orDefault(cfg.TextToSpeech.VoiceID, "auto")},
	}
	if voice, err := cfg.Voice(nil); err == nil {
		rows = append(rows,
			[2]string{"Speed", tts.SpeedDisplay(voice.Speed)},
			[2]string{"Volume", fmt.Sprintf("%.0f%%", voice.Volume*100)},
		)
	} else {
		rows = append(rows, [2]string{"Voice error", tts.UserMessage(err)})
	}
	rows = append(rows,
		[2]string{"Output", cfg.OutputDir()},
		[2]string{"Post cache", cfg.TempDir()},
		[2]string{"Theme", cfg.UI.Theme},
		[2]string{"Config file", orDefault(m.cfg.ConfigFile, "defaults")},
	)

	for _, row := range rows {
		fmt.Fprintf(b, "%s %s\n", m.styles.subtle.Render(fmt.Sprintf("%-12s", row[0])), row[1])
	}
	m.help(b, "edit with `rvc config` • esc back")
}

func (m model) creditsView(b *strings.Builder) {
	b.WriteString("Narrates Reddit posts and comments into audio clips.\n\n")
	b.WriteString(m.styles.subtle.Render("Speech by gTTS (Google Translate TTS) and eSpeak NG.\n"))
	b.WriteString(m.styles.subtle.Render("Built with Bubble Tea, Lip Gloss and Glamour.\n"))
	if m.cfg.Version != "" {
		b.WriteString(m.styles.subtle.Render("Version " + m.cfg.Version + "\n"))
	}
	m.help(b, "esc back")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
