// Package render turns pre-order hierarchy entries into indented text.
package render

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/hochfrequenz/orgchart/internal/domain"
)

// DefaultIndent is written once per level below the root
const DefaultIndent = "  "

var (
	rootStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	positionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))
)

// Options controls how a tree is written
type Options struct {
	Indent string
	Styled bool
}

// Line formats one entry as "Position (ID: n): Name", indented by depth.
func Line(e domain.Entry, indent string) string {
	return strings.Repeat(indent, e.Depth) +
		fmt.Sprintf("%s (ID: %d): %s", e.Employee.Position, e.Employee.ID, e.Employee.Name)
}

// StyledLine is Line with terminal colours. The root line is highlighted.
func StyledLine(e domain.Entry, indent string) string {
	pos := positionStyle
	if e.Depth == 0 {
		pos = rootStyle
	}
	return strings.Repeat(indent, e.Depth) +
		pos.Render(e.Employee.Position) + " " +
		idStyle.Render(fmt.Sprintf("(ID: %d)", e.Employee.ID)) + ": " +
		nameStyle.Render(e.Employee.Name)
}

// Tree writes one line per entry.
func Tree(w io.Writer, entries iter.Seq[domain.Entry], opts Options) error {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}
	line := Line
	if opts.Styled {
		line = StyledLine
	}
	for e := range entries {
		if _, err := fmt.Fprintln(w, line(e, indent)); err != nil {
			return err
		}
	}
	return nil
}

// Summary describes the size of a hierarchy, e.g. "1,024 employees across 5 levels".
func Summary(employees, depth int) string {
	if employees == 0 {
		return "no employees"
	}
	return fmt.Sprintf("%s %s across %s",
		humanize.Comma(int64(employees)),
		english.PluralWord(employees, "employee", ""),
		english.Plural(depth, "level", ""))
}
