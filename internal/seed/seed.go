// Package seed reads nested employee documents (YAML or TOML) and builds a
// hierarchy from them. Seeds are read-only; nothing is ever written back.
package seed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty is returned for a document with no employee in it
	ErrEmpty = errors.New("seed document is empty")

	// ErrDuplicateID is returned when two employees in one document share an ID.
	// AddChild attaches below the first pre-order match, so a duplicate would
	// silently move reports to the wrong manager.
	ErrDuplicateID = errors.New("duplicate employee id in seed")
)

// Format is the encoding of a seed document
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Node is one employee in a seed document together with their reports.
type Node struct {
	ID       int     `yaml:"id" toml:"id"`
	Name     string  `yaml:"name" toml:"name"`
	Position string  `yaml:"position" toml:"position"`
	Reports  []*Node `yaml:"reports,omitempty" toml:"reports,omitempty"`
}

func (n *Node) isZero() bool {
	return n.ID == 0 && n.Name == "" && n.Position == "" && len(n.Reports) == 0
}

// FormatFromPath picks the format from a file extension. Anything that is
// not .toml is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes a seed document and checks it for duplicate IDs.
func Parse(data []byte, format Format) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var root Node
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &root); err != nil {
			return nil, errors.Wrap(err, "decoding toml seed")
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, errors.Wrap(err, "decoding yaml seed")
		}
	default:
		return nil, errors.Errorf("unknown seed format %q", format)
	}

	if root.isZero() {
		return nil, ErrEmpty
	}
	if err := Validate(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// LoadFile reads and parses a seed file
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading seed %s", path)
	}
	root, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(err, "seed %s", path)
	}
	return root, nil
}

// Validate rejects nil reports and duplicate IDs
func Validate(root *Node) error {
	if root == nil {
		return ErrEmpty
	}
	seen := make(map[int]bool)
	var check func(n *Node) error
	check = func(n *Node) error {
		if seen[n.ID] {
			return errors.Wrapf(ErrDuplicateID, "id %d", n.ID)
		}
		seen[n.ID] = true
		for _, r := range n.Reports {
			if r == nil {
				return errors.Errorf("employee %d has an empty report entry", n.ID)
			}
			if err := check(r); err != nil {
				return err
			}
		}
		return nil
	}
	return check(root)
}

// Build replaces the contents of tree with the seed document. Reports are
// added in document order, so the tree's pre-order matches the document.
// The tree is not touched if the document is invalid.
func Build(tree *hierarchy.Tree, root *Node) error {
	if err := Validate(root); err != nil {
		return err
	}
	tree.Create(root.ID, root.Name, root.Position)
	return addReports(tree, root)
}

func addReports(tree *hierarchy.Tree, parent *Node) error {
	for _, r := range parent.Reports {
		if err := tree.AddChild(parent.ID, r.ID, r.Name, r.Position); err != nil {
			return errors.Wrapf(err, "adding %d under %d", r.ID, parent.ID)
		}
		if err := addReports(tree, r); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of employees in the document
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, r := range n.Reports {
		total += r.Count()
	}
	return total
}
