// Package formatter renders query matches for terminal output, grouped
// by file with colorized kind tags and source previews.
package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/cygnusbill/treepath"
)

var (
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	kindStyle    = color.New(color.FgYellow, color.Bold)
	nameStyle    = color.New(color.FgGreen, color.Bold)
	previewStyle = color.New(color.FgWhite)
	countStyle   = color.New(color.FgMagenta, color.Bold)
)

// FormatMatches renders matches grouped by file, ordered by position
// within each file, followed by a total count line.
func FormatMatches(matches []treepath.Match) string {
	byFile := make(map[string][]treepath.Match)
	for _, m := range matches {
		byFile[m.Location.Filename] = append(byFile[m.Location.Filename], m)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var builder strings.Builder
	for _, f := range files {
		fileMatches := byFile[f]
		sort.SliceStable(fileMatches, func(i, j int) bool {
			a, b := fileMatches[i].Location.Start, fileMatches[j].Location.Start
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			return a.Column < b.Column
		})

		builder.WriteString(fileStyle.Sprint(f))
		builder.WriteString("\n")
		for _, m := range fileMatches {
			builder.WriteString(formatMatch(m))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(countStyle.Sprintf("%d match(es)", len(matches)))
	builder.WriteString("\n")
	return builder.String()
}

func formatMatch(m treepath.Match) string {
	var builder strings.Builder
	builder.WriteString("  ")
	builder.WriteString(lineStyle.Sprintf("%d:%d", m.Location.Start.Line, m.Location.Start.Column))
	builder.WriteString("  ")
	builder.WriteString(kindStyle.Sprint(m.Kind))
	if m.Name != "" {
		builder.WriteString("  ")
		builder.WriteString(nameStyle.Sprint(m.Name))
	}
	if m.Preview != "" {
		builder.WriteString("  ")
		builder.WriteString(previewStyle.Sprint(m.Preview))
	}
	builder.WriteString("\n")
	return builder.String()
}

// FormatTree renders an adapter's view of a tree for the ast command:
// one line per node, indented by depth.
func FormatTree(lines []TreeLine) string {
	var builder strings.Builder
	for _, l := range lines {
		builder.WriteString(strings.Repeat("  ", l.Depth))
		builder.WriteString(kindStyle.Sprint(l.Kind))
		if l.Name != "" {
			builder.WriteString(" ")
			builder.WriteString(nameStyle.Sprint(l.Name))
		}
		builder.WriteString(" ")
		builder.WriteString(lineStyle.Sprintf("%d:%d", l.Line, l.Column))
		builder.WriteString("\n")
	}
	return builder.String()
}

// TreeLine is one row of an ast dump.
type TreeLine struct {
	Depth  int
	Kind   string
	Name   string
	Line   int
	Column int
}

// Summary is a one-line result description for quiet output.
func Summary(q string, n int) string {
	return fmt.Sprintf("%s: %s", q, countStyle.Sprintf("%d match(es)", n))
}
