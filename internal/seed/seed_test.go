package seed

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hochfrequenz/orgchart/internal/domain"
	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSeed = `
id: 1
name: Alice
position: CEO
reports:
  - id: 2
    name: Bob
    position: Manager
    reports:
      - id: 3
        name: Charlie
        position: Engineer
  - id: 4
    name: Dana
    position: Engineer
`

const tomlSeed = `
id = 1
name = "Alice"
position = "CEO"

[[reports]]
id = 2
name = "Bob"
position = "Manager"

[[reports.reports]]
id = 3
name = "Charlie"
position = "Engineer"

[[reports]]
id = 4
name = "Dana"
position = "Engineer"
`

func entriesOf(t *testing.T, root *Node) []domain.Entry {
	t.Helper()
	tree := hierarchy.New()
	require.NoError(t, Build(tree, root))
	return slices.Collect(tree.Render())
}

func TestParse_YAMLAndTOMLBuildSameTree(t *testing.T) {
	fromYAML, err := Parse([]byte(yamlSeed), FormatYAML)
	require.NoError(t, err)
	fromTOML, err := Parse([]byte(tomlSeed), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	assert.Equal(t, 4, fromYAML.Count())

	entries := entriesOf(t, fromYAML)
	got := make([]int, len(entries))
	for i, e := range entries {
		got[i] = e.Employee.ID
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.Equal(t, 2, entries[2].Depth)
}

func TestParse_Empty(t *testing.T) {
	for _, data := range []string{"", "   \n", "{}"} {
		_, err := Parse([]byte(data), FormatYAML)
		assert.ErrorIs(t, err, ErrEmpty, "input %q", data)
	}
}

func TestParse_DuplicateID(t *testing.T) {
	doc := `
id: 1
name: Alice
position: CEO
reports:
  - id: 2
    name: Bob
    position: Manager
  - id: 2
    name: Bobby
    position: Manager
`
	_, err := Parse([]byte(doc), FormatYAML)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("id: [unterminated"), FormatYAML)
	assert.Error(t, err)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte("id: 1"), Format("xml"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"company.toml", FormatTOML},
		{"company.TOML", FormatTOML},
		{"company.yaml", FormatYAML},
		{"company.yml", FormatYAML},
		{"company", FormatYAML},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "company.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlSeed), 0644))

	root, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Alice", root.Name)
	require.Len(t, root.Reports, 2)
	assert.Equal(t, "Charlie", root.Reports[0].Reports[0].Name)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuild_InvalidLeavesTreeUntouched(t *testing.T) {
	tree := hierarchy.New()
	tree.Create(9, "Zed", "Founder")

	bad := &Node{ID: 1, Reports: []*Node{{ID: 1}}}
	err := Build(tree, bad)

	assert.ErrorIs(t, err, ErrDuplicateID)
	root, _ := tree.Root()
	assert.Equal(t, 9, root.ID)
}

func TestBuild_Nil(t *testing.T) {
	assert.ErrorIs(t, Build(hierarchy.New(), nil), ErrEmpty)
}

func TestSample(t *testing.T) {
	root := Sample()

	assert.Equal(t, 7, root.Count())

	tree := hierarchy.New()
	require.NoError(t, Build(tree, root))
	engineers := tree.FindAllByPosition("Engineer")
	names := make([]string, len(engineers))
	for i, e := range engineers {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Charlie", "Dave", "Eve"}, names)
	assert.Equal(t, 3, tree.Depth())
}
