// Package hierarchy holds the organizational tree: a single root employee
// and, below it, everyone who reports to them.
//
// Every lookup is a depth-first pre-order scan (a node before its children,
// children in insertion order). IDs are not required to be unique; when
// several nodes share an ID, operations act on the first one the scan meets.
package hierarchy

import (
	"errors"
	"iter"
	"slices"

	"github.com/hochfrequenz/orgchart/internal/domain"
)

// ErrNotFound is returned when no employee has the requested ID, or the
// tree has no root yet.
var ErrNotFound = errors.New("employee not found")

type node struct {
	employee domain.Employee
	children []*node
}

// Tree is a single-rooted employee hierarchy. The zero value is an empty
// tree. A Tree is not safe for concurrent use.
type Tree struct {
	root *node
}

// New returns an empty tree
func New() *Tree {
	return &Tree{}
}

// Create replaces the whole tree with a single root employee.
func (t *Tree) Create(id int, name, position string) {
	t.root = &node{employee: domain.Employee{ID: id, Name: name, Position: position}}
}

// Empty reports whether the tree has no root
func (t *Tree) Empty() bool {
	return t.root == nil
}

// Root returns the root employee
func (t *Tree) Root() (domain.Employee, bool) {
	if t.root == nil {
		return domain.Employee{}, false
	}
	return t.root.employee, true
}

// AddChild appends a new employee below the first node with parentID.
// The tree is left unchanged if parentID does not exist.
func (t *Tree) AddChild(parentID, id int, name, position string) error {
	parent := t.find(parentID)
	if parent == nil {
		return ErrNotFound
	}
	parent.children = append(parent.children, &node{
		employee: domain.Employee{ID: id, Name: name, Position: position},
	})
	return nil
}

// FindByID returns the first employee in pre-order with the given ID.
func (t *Tree) FindByID(id int) (domain.Employee, error) {
	n := t.find(id)
	if n == nil {
		return domain.Employee{}, ErrNotFound
	}
	return n.employee, nil
}

// FindAllByPosition returns every employee whose position equals position
// exactly, in pre-order. The result is empty, never nil, when nothing matches.
func (t *Tree) FindAllByPosition(position string) []domain.Employee {
	found := []domain.Employee{}
	for e := range t.Render() {
		if e.Employee.Position == position {
			found = append(found, e.Employee)
		}
	}
	return found
}

// Subordinates returns the direct reports of the first employee with id.
func (t *Tree) Subordinates(id int) ([]domain.Employee, error) {
	n := t.find(id)
	if n == nil {
		return nil, ErrNotFound
	}
	out := make([]domain.Employee, len(n.children))
	for i, c := range n.children {
		out[i] = c.employee
	}
	return out, nil
}

// DeleteByID detaches the first non-root employee with the given ID from its
// parent, dropping the whole subtree. The root can't be deleted this way.
func (t *Tree) DeleteByID(id int) error {
	if t.root == nil || !t.root.detach(id) {
		return ErrNotFound
	}
	return nil
}

// UpdateByID changes the name and position of the first employee with id.
// An empty name or position leaves that field unchanged.
func (t *Tree) UpdateByID(id int, name, position string) error {
	n := t.find(id)
	if n == nil {
		return ErrNotFound
	}
	if name != "" {
		n.employee.Name = name
	}
	if position != "" {
		n.employee.Position = position
	}
	return nil
}

// Promote sets a new position. It does not compare ranks; any position is
// accepted, exactly as with Demote.
func (t *Tree) Promote(id int, position string) error {
	return t.UpdateByID(id, "", position)
}

// Demote sets a new position. See Promote.
func (t *Tree) Demote(id int, position string) error {
	return t.UpdateByID(id, "", position)
}

// Render yields every employee in pre-order together with its depth (the
// root is at depth 0). The sequence reads the tree as it is when iterated,
// so it can be ranged over any number of times. The tree must not be
// modified while a range over it is in progress.
func (t *Tree) Render() iter.Seq[domain.Entry] {
	return func(yield func(domain.Entry) bool) {
		if t.root == nil {
			return
		}
		t.root.walk(0, yield)
	}
}

// Len returns the number of employees
func (t *Tree) Len() int {
	n := 0
	for range t.Render() {
		n++
	}
	return n
}

// Depth returns the number of levels: 0 for an empty tree, 1 for a lone root.
func (t *Tree) Depth() int {
	depth := 0
	for e := range t.Render() {
		if e.Depth+1 > depth {
			depth = e.Depth + 1
		}
	}
	return depth
}

func (t *Tree) find(id int) *node {
	if t.root == nil {
		return nil
	}
	return t.root.find(id)
}

func (n *node) find(id int) *node {
	if n.employee.ID == id {
		return n
	}
	for _, c := range n.children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// detach removes the first descendant (in pre-order) with the given id.
func (n *node) detach(id int) bool {
	for i, c := range n.children {
		if c.employee.ID == id {
			n.children = slices.Delete(n.children, i, i+1)
			return true
		}
		if c.detach(id) {
			return true
		}
	}
	return false
}

func (n *node) walk(depth int, yield func(domain.Entry) bool) bool {
	if !yield(domain.Entry{Depth: depth, Employee: n.employee}) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(depth+1, yield) {
			return false
		}
	}
	return true
}
