package render

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/hochfrequenz/orgchart/internal/domain"
	"github.com/hochfrequenz/orgchart/internal/hierarchy"
)

func TestLine(t *testing.T) {
	tests := []struct {
		entry  domain.Entry
		indent string
		want   string
	}{
		{domain.Entry{Depth: 0, Employee: domain.Employee{ID: 1, Name: "Alice", Position: "CEO"}}, "  ", "CEO (ID: 1): Alice"},
		{domain.Entry{Depth: 2, Employee: domain.Employee{ID: 4, Name: "Charlie", Position: "Engineer"}}, "  ", "    Engineer (ID: 4): Charlie"},
		{domain.Entry{Depth: 1, Employee: domain.Employee{ID: 2, Name: "Bob", Position: "Manager"}}, "\t", "\tManager (ID: 2): Bob"},
	}

	for _, tt := range tests {
		got := Line(tt.entry, tt.indent)
		if got != tt.want {
			t.Errorf("Line() = %q, want %q", got, tt.want)
		}
	}
}

func TestTree_Plain(t *testing.T) {
	tree := hierarchy.New()
	tree.Create(1, "Alice", "CEO")
	tree.AddChild(1, 2, "Bob", "Head of Engineering")
	tree.AddChild(2, 4, "Charlie", "Engineer")
	tree.AddChild(1, 3, "Eve", "Head of Marketing")

	var buf bytes.Buffer
	if err := Tree(&buf, tree.Render(), Options{}); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"CEO (ID: 1): Alice",
		"  Head of Engineering (ID: 2): Bob",
		"    Engineer (ID: 4): Charlie",
		"  Head of Marketing (ID: 3): Eve",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTree_EmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := Tree(&buf, hierarchy.New().Render(), Options{Styled: true}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestTree_StyledContainsFields(t *testing.T) {
	entries := slices.Values([]domain.Entry{
		{Depth: 1, Employee: domain.Employee{ID: 7, Name: "Fiona", Position: "Marketer"}},
	})

	var buf bytes.Buffer
	if err := Tree(&buf, entries, Options{Styled: true, Indent: "--"}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"--", "Marketer", "(ID: 7)", "Fiona"} {
		if !strings.Contains(out, want) {
			t.Errorf("styled output %q missing %q", out, want)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		employees, depth int
		want             string
	}{
		{0, 0, "no employees"},
		{1, 1, "1 employee across 1 level"},
		{7, 3, "7 employees across 3 levels"},
		{1024, 5, "1,024 employees across 5 levels"},
	}

	for _, tt := range tests {
		if got := Summary(tt.employees, tt.depth); got != tt.want {
			t.Errorf("Summary(%d, %d) = %q, want %q", tt.employees, tt.depth, got, tt.want)
		}
	}
}
