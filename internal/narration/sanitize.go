package narration

import (
	"regexp"
	"strings"
)

// maxPasses bounds the fixpoint loop in Sanitize. Real input settles in two
// or three passes.
const maxPasses = 10

var (
	fencedBackticks = regexp.MustCompile("(?ms)^[ \t]*```.*?(?:^[ \t]*```[^\n]*$|\\z)")
	fencedTildes    = regexp.MustCompile("(?ms)^[ \t]*~~~.*?(?:^[ \t]*~~~[^\n]*$|\\z)")

	inlineCode     = regexp.MustCompile("`([^`\n]*)`")
	bold           = regexp.MustCompile(`\*\*(.+?)\*\*`)
	underlineBold  = regexp.MustCompile(`__(.+?)__`)
	italicStar     = regexp.MustCompile(`(^|[^\w*])\*([^\s*](?:[^*\n]*[^\s*])?)\*`)
	italicUnder    = regexp.MustCompile(`(^|[^\w_])_([^\s_](?:[^_\n]*[^\s_])?)_($|[^\w_])`)
	strikethrough  = regexp.MustCompile(`~~(.+?)~~`)
	link           = regexp.MustCompile(`!?\[((?:[^\[\]\n]|\[[^\]\n]*\])*)\]\((?:[^()\n]|\([^)\n]*\))*\)`)
	looseLink      = regexp.MustCompile(`!?\[([^\]\n]*)\]\([^)\n]*\)`)
	angleURL       = regexp.MustCompile(`<((?:https?|ftp)://[^>\s]*)>`)
	strayMarkers   = strings.NewReplacer("**", "", "`", "", "~~", "")
	mention        = regexp.MustCompile(`(^|[^\w/])/?[ur]/[\w-]*`)
	mentionResidue = regexp.MustCompile(`(^|\W)/[ur]/`)

	heading        = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	horizontalRule = regexp.MustCompile(`(?m)^[ \t]*(?:[-*_][ \t]*){3,}$`)
	bullet         = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)

	paragraphBreak  = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
	whitespace      = regexp.MustCompile(`[\s\p{Zs}]+`)
	spaceBeforePunc = regexp.MustCompile(`\s+([.,?!;:])`)
	repeatedDots    = regexp.MustCompile(`\.{2,}`)
	repeatedQuests  = regexp.MustCompile(`\?{2,}`)
	repeatedBangs   = regexp.MustCompile(`!{2,}`)

	entities = strings.NewReplacer(
		"&amp;", " and ",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#x27;", "'",
		"&#39;", "'",
	)
)

// Sanitize turns Reddit markdown into plain text suitable for speech.
//
// It never fails; input with nothing speakable yields "". The result is a
// fixpoint of the cleaning pass, so Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	out := raw
	for i := 0; i < maxPasses; i++ {
		next := sanitizePass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func sanitizePass(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = fencedBackticks.ReplaceAllString(s, "")
	s = fencedTildes.ReplaceAllString(s, "")
	s = entities.Replace(s)

	s = stripInline(s)
	s = mention.ReplaceAllString(s, "${1}")
	s = mentionResidue.ReplaceAllString(s, "${1}/")

	s = heading.ReplaceAllString(s, "")
	s = horizontalRule.ReplaceAllString(s, "")
	s = bullet.ReplaceAllString(s, "")
	s = dropLines(s)
	s = joinParagraphs(s)

	s = whitespace.ReplaceAllString(s, " ")
	s = spaceBeforePunc.ReplaceAllString(s, "${1}")
	s = repeatedDots.ReplaceAllString(s, ".")
	s = repeatedQuests.ReplaceAllString(s, "?")
	s = repeatedBangs.ReplaceAllString(s, "!")

	return strings.TrimSpace(s)
}

// stripInline unwraps emphasis, code spans and links until nothing changes,
// then removes unmatched markers.
func stripInline(s string) string {
	for i := 0; i < maxPasses; i++ {
		prev := s
		s = inlineCode.ReplaceAllString(s, "${1}")
		s = bold.ReplaceAllString(s, "${1}")
		s = underlineBold.ReplaceAllString(s, "${1}")
		s = italicStar.ReplaceAllString(s, "${1}${2}")
		s = italicUnder.ReplaceAllString(s, "${1}${2}${3}")
		s = strikethrough.ReplaceAllString(s, "${1}")
		s = link.ReplaceAllString(s, "${1}")
		s = looseLink.ReplaceAllString(s, "${1}")
		s = angleURL.ReplaceAllString(s, "${1}")
		if s == prev {
			break
		}
	}
	return strayMarkers.Replace(s)
}

// dropLines removes quoted lines and edit notes.
func dropLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, ">") || strings.HasPrefix(trimmed, "&gt;") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(trimmed), "edit:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// joinParagraphs turns each blank-line paragraph break into a sentence
// boundary. Paragraphs already ending in punctuation only get a space.
func joinParagraphs(s string) string {
	var b strings.Builder
	for _, p := range paragraphBreak.Split(s, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			if strings.ContainsAny(lastRune(b.String()), ".?!:;,") {
				b.WriteString(" ")
			} else {
				b.WriteString(". ")
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

func lastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return ""
	}
	return string(r[len(r)-1])
}
