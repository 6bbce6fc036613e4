package main

import (
	"fmt"
	"io"

	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/hochfrequenz/orgchart/internal/render"
	"github.com/hochfrequenz/orgchart/internal/seed"
	"github.com/spf13/cobra"
)

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	return demo(cmd.OutOrStdout(), renderOptions(cfg))
}

// demo builds the sample company, then updates, searches and deletes in it,
// printing each step.
func demo(w io.Writer, opts render.Options) error {
	tree := hierarchy.New()
	if err := seed.Build(tree, seed.Sample()); err != nil {
		return err
	}

	fmt.Fprintln(w, "Company Hierarchy:")
	if err := render.Tree(w, tree.Render(), opts); err != nil {
		return err
	}

	const updateID = 4
	if err := tree.UpdateByID(updateID, "Charles", "Senior Engineer"); err != nil {
		fmt.Fprintf(w, "\nEmployee with ID %d not found.\n", updateID)
	} else {
		fmt.Fprintf(w, "\nEmployee with ID %d has been updated.\n", updateID)
	}

	fmt.Fprintln(w, "\nUpdated Company Hierarchy:")
	if err := render.Tree(w, tree.Render(), opts); err != nil {
		return err
	}

	const position = "Engineer"
	found := tree.FindAllByPosition(position)
	fmt.Fprintf(w, "\nEmployees with position '%s':\n", position)
	if len(found) == 0 {
		fmt.Fprintf(w, "No employees found with position '%s'.\n", position)
	}
	for _, e := range found {
		fmt.Fprintln(w, e.String())
	}

	fmt.Fprintln(w, "\nSearch Results:")
	if e, err := tree.FindByID(updateID); err != nil {
		fmt.Fprintf(w, "No employee found with ID: %d\n", updateID)
	} else {
		fmt.Fprintln(w, "Employee found:")
		fmt.Fprintln(w, e.String())
	}

	const deleteID = 4
	if err := tree.DeleteByID(deleteID); err != nil {
		fmt.Fprintf(w, "\nEmployee with ID %d not found.\n", deleteID)
	} else {
		fmt.Fprintf(w, "\nEmployee with ID %d has been deleted.\n", deleteID)
	}

	fmt.Fprintln(w, "\nCompany Hierarchy (After Deletion):")
	return render.Tree(w, tree.Render(), opts)
}
