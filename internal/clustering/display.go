package clustering

import (
	"fmt"
	"strings"
)

const sampleSongCount = 3

// FormatGroupSummary returns a human-readable summary of emotion groups.
// Shows each group's profile, size and first 3 songs. Outliers are
// summarized by count only.
func FormatGroupSummary(groups []Group, outliers []string) string {
	var sb strings.Builder

	total := len(outliers)
	for _, g := range groups {
		total += len(g.Songs)
	}

	if len(groups) == 0 {
		fmt.Fprintf(&sb, "No emotion groups found from %d songs", total)
		if len(outliers) > 0 {
			fmt.Fprintf(&sb, " (%d outliers skipped)", len(outliers))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d emotion %s from %d songs", len(groups), plural(len(groups), "group", "groups"), total)
	if len(outliers) > 0 {
		fmt.Fprintf(&sb, " (%d outliers skipped)", len(outliers))
	}
	sb.WriteString("\n")

	for i, g := range groups {
		sb.WriteString("\n")
		sb.WriteString(formatGroup(i+1, g))
	}

	return sb.String()
}

func formatGroup(num int, g Group) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Group %d: %s (%d %s)\n", num, g.Name, len(g.Songs), plural(len(g.Songs), "song", "songs"))
	fmt.Fprintf(&sb, "  %s\n", Describe(g.Centroid))
	c := g.Centroid
	fmt.Fprintf(&sb, "  happy %.2f  angry %.2f  surprise %.2f  sad %.2f  fear %.2f\n",
		c.Happy, c.Angry, c.Surprise, c.Sad, c.Fear)

	for _, name := range g.Songs[:min(sampleSongCount, len(g.Songs))] {
		fmt.Fprintf(&sb, "  • %q\n", name)
	}
	if remaining := len(g.Songs) - sampleSongCount; remaining > 0 {
		fmt.Fprintf(&sb, "  ... and %d more\n", remaining)
	}

	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
