// Package console runs the interactive, line-oriented company menu.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hochfrequenz/orgchart/internal/domain"
	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/hochfrequenz/orgchart/internal/render"
	"github.com/sirupsen/logrus"
)

const menu = `
==== Company Hierarchy ====
1. Create company
2. Add employee
3. Display hierarchy
4. Find employee by ID
5. Find employees by position
6. Update employee
7. Promote employee
8. Demote employee
9. Delete employee
0. Exit
`

// Console reads menu choices and fields from in and writes results to out.
// It drives a single tree and is the tree's only caller.
type Console struct {
	tree *hierarchy.Tree
	in   *bufio.Scanner
	out  io.Writer
	opts render.Options
	log  logrus.FieldLogger
}

// New creates a console over tree
func New(tree *hierarchy.Tree, in io.Reader, out io.Writer, opts render.Options, log logrus.FieldLogger) *Console {
	return &Console{
		tree: tree,
		in:   bufio.NewScanner(in),
		out:  out,
		opts: opts,
		log:  log,
	}
}

// Run shows the menu until the user exits or input ends. Reaching the end
// of input is not an error.
func (c *Console) Run() error {
	for {
		fmt.Fprint(c.out, menu)
		choice, ok := c.prompt("Enter choice: ")
		if !ok {
			return c.in.Err()
		}

		if choice == "0" {
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		}

		action, known := c.actions()[choice]
		if !known {
			fmt.Fprintln(c.out, "Invalid choice.")
			continue
		}
		if choice != "1" && c.tree.Empty() {
			fmt.Fprintln(c.out, "No company created yet.")
			continue
		}
		if !action() {
			return c.in.Err()
		}
	}
}

// actions maps menu choices to handlers. A handler returns false when
// input ran out mid-prompt.
func (c *Console) actions() map[string]func() bool {
	return map[string]func() bool{
		"1": c.createCompany,
		"2": c.addEmployee,
		"3": c.display,
		"4": c.findByID,
		"5": c.findByPosition,
		"6": c.update,
		"7": func() bool { return c.changePosition("promoted", c.tree.Promote) },
		"8": func() bool { return c.changePosition("demoted", c.tree.Demote) },
		"9": c.deleteEmployee,
	}
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptID reads an integer. valid is false when the line isn't a number.
func (c *Console) promptID(label string) (id int, valid, ok bool) {
	text, ok := c.prompt(label)
	if !ok {
		return 0, false, false
	}
	id, err := domain.ParseID(text)
	if err != nil {
		fmt.Fprintf(c.out, "%s.\n", capitalize(err.Error()))
		return 0, false, true
	}
	return id, true, true
}

func (c *Console) createCompany() bool {
	id, valid, ok := c.promptID("CEO ID: ")
	if !ok || !valid {
		return ok
	}
	name, ok := c.prompt("CEO name: ")
	if !ok {
		return false
	}
	position, ok := c.prompt("CEO position: ")
	if !ok {
		return false
	}

	c.tree.Create(id, name, position)
	c.log.WithField("employee_id", id).Debug("company created")
	fmt.Fprintf(c.out, "Company created with %s (ID: %d) as %s.\n", name, id, position)
	return true
}

func (c *Console) addEmployee() bool {
	parentID, valid, ok := c.promptID("Manager ID: ")
	if !ok || !valid {
		return ok
	}
	id, valid, ok := c.promptID("Employee ID: ")
	if !ok || !valid {
		return ok
	}
	name, ok := c.prompt("Name: ")
	if !ok {
		return false
	}
	position, ok := c.prompt("Position: ")
	if !ok {
		return false
	}

	if err := c.tree.AddChild(parentID, id, name, position); err != nil {
		fmt.Fprintf(c.out, "Manager with ID %d not found.\n", parentID)
		return true
	}
	c.log.WithFields(logrus.Fields{"employee_id": id, "parent_id": parentID}).Debug("employee added")
	fmt.Fprintf(c.out, "Employee with ID %d added under ID %d.\n", id, parentID)
	return true
}

func (c *Console) display() bool {
	fmt.Fprintln(c.out, "Company Hierarchy:")
	if err := render.Tree(c.out, c.tree.Render(), c.opts); err != nil {
		c.log.WithError(err).Warn("writing hierarchy")
	}
	fmt.Fprintln(c.out, render.Summary(c.tree.Len(), c.tree.Depth()))
	return true
}

func (c *Console) findByID() bool {
	id, valid, ok := c.promptID("Employee ID: ")
	if !ok || !valid {
		return ok
	}

	e, err := c.tree.FindByID(id)
	if err != nil {
		fmt.Fprintf(c.out, "No employee found with ID: %d\n", id)
		return true
	}
	fmt.Fprintln(c.out, "Employee found:")
	fmt.Fprintln(c.out, e.String())
	return true
}

func (c *Console) findByPosition() bool {
	position, ok := c.prompt("Position: ")
	if !ok {
		return false
	}

	found := c.tree.FindAllByPosition(position)
	if len(found) == 0 {
		fmt.Fprintf(c.out, "No employees found with position '%s'.\n", position)
		return true
	}
	fmt.Fprintf(c.out, "Employees with position '%s':\n", position)
	for _, e := range found {
		fmt.Fprintln(c.out, e.String())
	}
	return true
}

func (c *Console) update() bool {
	id, valid, ok := c.promptID("Employee ID: ")
	if !ok || !valid {
		return ok
	}
	name, ok := c.prompt("New name (blank to keep): ")
	if !ok {
		return false
	}
	position, ok := c.prompt("New position (blank to keep): ")
	if !ok {
		return false
	}

	if err := c.tree.UpdateByID(id, name, position); err != nil {
		fmt.Fprintf(c.out, "Employee with ID %d not found.\n", id)
		return true
	}
	fmt.Fprintf(c.out, "Employee with ID %d has been updated.\n", id)
	return true
}

func (c *Console) changePosition(verb string, apply func(id int, position string) error) bool {
	id, valid, ok := c.promptID("Employee ID: ")
	if !ok || !valid {
		return ok
	}
	position, ok := c.prompt("New position: ")
	if !ok {
		return false
	}

	if err := apply(id, position); err != nil {
		fmt.Fprintf(c.out, "Employee with ID %d not found.\n", id)
		return true
	}
	fmt.Fprintf(c.out, "Employee with ID %d has been %s.\n", id, verb)
	return true
}

func (c *Console) deleteEmployee() bool {
	id, valid, ok := c.promptID("Employee ID: ")
	if !ok || !valid {
		return ok
	}

	if err := c.tree.DeleteByID(id); err != nil {
		if root, _ := c.tree.Root(); root.ID == id {
			fmt.Fprintf(c.out, "Employee with ID %d is the head of the company and cannot be deleted.\n", id)
			return true
		}
		fmt.Fprintf(c.out, "Employee with ID %d not found.\n", id)
		return true
	}
	c.log.WithField("employee_id", id).Debug("employee deleted")
	fmt.Fprintf(c.out, "Employee with ID %d has been deleted.\n", id)
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
