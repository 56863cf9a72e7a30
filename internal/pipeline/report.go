package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// RenderMarkdown formats a run as markdown for display.
func RenderMarkdown(agg *AggregateResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Narration for post %s\n\n", agg.PostID)
	fmt.Fprintf(&b, "Engine: **%s** · Output: `%s` · Run: `%s`\n\n", agg.Engine, agg.OutputDir, agg.RunID)

	if len(agg.Results) > 0 {
		b.WriteString("| # | Segment | File | Size | Est. duration | Preview |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for i, r := range agg.Results {
			file, size, dur := "failed", "-", "-"
			if r.Success {
				file = "`" + filepath.Base(r.FilePath) + "`"
				size = humanize.Bytes(uint64(r.FileSize))
				dur = r.EstimatedDuration.String()
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
				i+1, escapeCell(r.Segment.Description), file, size, dur, escapeCell(r.Preview))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**%d of %d files generated** (%s, about %s of speech)",
		agg.Succeeded(), len(agg.Results), humanize.Bytes(uint64(agg.TotalSize())), agg.TotalDuration())
	if agg.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", agg.Failed)
	}
	b.WriteString(".\n")

	if agg.Failed > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, r := range agg.Results {
			if r.Success {
				continue
			}
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", r.Segment.Description, r.Code, r.Error)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
