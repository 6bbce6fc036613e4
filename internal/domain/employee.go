package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Employee is a copy of one node's data in the hierarchy.
type Employee struct {
	ID       int
	Name     string
	Position string
}

// String returns the display form used by search results
func (e Employee) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Position: %s", e.ID, e.Name, e.Position)
}

// Entry is one row of a pre-order walk: an employee and its depth below the root.
type Entry struct {
	Depth    int
	Employee Employee
}

// ParseID parses an employee ID typed by a user or taken from a URL.
// Surrounding whitespace is ignored; negative IDs are allowed.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid employee id %q", s)
	}
	return id, nil
}
