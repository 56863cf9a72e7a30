package pipeline

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/muesli/reflow/truncate"
	"github.com/polybitrockzz/reddit-video-creator/internal/narration"
)

const (
	// CharsPerSecond is the speaking pace used for duration estimates.
	CharsPerSecond = 15

	// PreviewWidth is the maximum width of a text preview, tail included.
	PreviewWidth = 50
)

// FileName returns the output name for a segment:
// audio_<12 hex chars>_<suffix>.<ext>. The hash covers the post, the source
// post or comment and the role, so reruns of the same plan reuse names.
func FileName(seg narration.Segment, ext string) string {
	sum := md5.Sum([]byte(seg.PostID + ":" + seg.SourceID + ":" + string(seg.Role)))
	return fmt.Sprintf("audio_%s_%s.%s", hex.EncodeToString(sum[:])[:12], seg.Suffix, ext)
}

// EstimateDuration guesses how long text takes to speak.
func EstimateDuration(text string) time.Duration {
	chars := utf8.RuneCountInString(text)
	return time.Duration(float64(chars) / CharsPerSecond * float64(time.Second)).Round(100 * time.Millisecond)
}

// Preview shortens text for display.
func Preview(text string) string {
	return truncate.StringWithTail(text, PreviewWidth, "...")
}
