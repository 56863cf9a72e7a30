package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/polybitrockzz/reddit-video-creator/internal/tts/engines"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

var (
	voicesLang   string
	voicesSearch string
)

var voicesCmd = &cobra.Command{
	Use:     "voices",
	Short:   "List the voices each backend offers",
	Long:    paragraph(fmt.Sprintf("\nList offline eSpeak NG voices and the %s languages. The voice marked with * is the one narration uses.", keyword("gTTS"))),
	Example: paragraph("rvc voices\nrvc voices --lang de\nrvc voices --lang '' --search brit"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lang := voicesLang
		if !cmd.Flags().Changed("lang") {
			lang = cfg.TextToSpeech.Voice
		}

		gtts := engines.NewGTTSEngine(engines.GTTSConfig{Logger: log.Default()})
		fmt.Println(keyword(" gtts "), dimStyle.Render("online, MP3"))
		for _, code := range gtts.Info().Languages {
			mark := " "
			if strings.EqualFold(code, lang) {
				mark = okStyle.Render("*")
			}
			fmt.Printf(" %s %s %s\n", mark, runewidth.FillRight(code, 4), engines.GTTSLanguages[code])
		}
		fmt.Println()

		espeak := engines.NewESpeakEngine(engines.ESpeakConfig{Logger: log.Default()})
		fmt.Println(keyword(" pyttsx3 "), dimStyle.Render("offline, WAV"))
		voices, err := espeak.ListVoices(cmd.Context(), lang)
		if err != nil {
			return err
		}

		selected := cfg.TextToSpeech.VoiceID
		if selected == "" {
			if v, ok := engines.SelectVoice(voices); ok {
				selected = v.ID
			}
		}

		voices = searchVoices(voices, voicesSearch)
		if len(voices) == 0 {
			fmt.Println(dimStyle.Render("   no matching voices"))
			return nil
		}

		for _, v := range voices {
			mark := " "
			if v.ID == selected {
				mark = okStyle.Render("*")
			}
			fmt.Printf(" %s %s %s %s\n", mark,
				runewidth.FillRight(v.ID, 12),
				runewidth.FillRight(runewidth.Truncate(v.Name, 30, "…"), 30),
				dimStyle.Render(v.Gender))
		}
		return nil
	},
}

// searchVoices keeps the voices whose "id name" fuzzy-matches query, best
// match first. An empty query keeps everything.
func searchVoices(voices []engines.Voice, query string) []engines.Voice {
	if strings.TrimSpace(query) == "" {
		return voices
	}
	targets := make([]string, len(voices))
	for i, v := range voices {
		targets[i] = v.ID + " " + v.Name
	}
	matches := fuzzy.Find(query, targets)
	found := make([]engines.Voice, 0, len(matches))
	for _, m := range matches {
		found = append(found, voices[m.Index])
	}
	return found
}

func init() {
	voicesCmd.Flags().StringVarP(&voicesLang, "lang", "l", "", "language to list, empty for all (default text_to_speech.voice)")
	voicesCmd.Flags().StringVarP(&voicesSearch, "search", "s", "", "fuzzy filter on voice id and name")
}
