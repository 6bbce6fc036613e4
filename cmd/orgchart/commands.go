package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hochfrequenz/orgchart/internal/config"
	"github.com/hochfrequenz/orgchart/internal/console"
	"github.com/hochfrequenz/orgchart/internal/hierarchy"
	"github.com/hochfrequenz/orgchart/internal/logging"
	"github.com/hochfrequenz/orgchart/internal/orgservice"
	"github.com/hochfrequenz/orgchart/internal/render"
	"github.com/hochfrequenz/orgchart/internal/seed"
	"github.com/hochfrequenz/orgchart/tui"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	showStyled   bool
	findID       int
	findPosition string
	shellSample  bool
)

func init() {
	// shell command
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive company menu",
		Long: `Start the interactive menu. The company starts out empty unless a seed
is given with --seed, configured as general.seed_path, or --sample is set.`,
		Args: cobra.NoArgs,
		RunE: runShell,
	}
	shellCmd.Flags().BoolVar(&shellSample, "sample", false, "start with the built-in sample company")
	rootCmd.AddCommand(shellCmd)

	// show command
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the hierarchy",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	showCmd.Flags().BoolVar(&showStyled, "styled", false, "colour the output")
	rootCmd.AddCommand(showCmd)

	// find command
	findCmd := &cobra.Command{
		Use:   "find",
		Short: "Find employees by ID or position",
		Args:  cobra.NoArgs,
		RunE:  runFind,
	}
	findCmd.Flags().IntVar(&findID, "id", 0, "employee ID")
	findCmd.Flags().StringVar(&findPosition, "position", "", "exact position, case-sensitive")
	findCmd.MarkFlagsOneRequired("id", "position")
	findCmd.MarkFlagsMutuallyExclusive("id", "position")
	rootCmd.AddCommand(findCmd)

	// demo command
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through updating, searching and deleting in the sample company",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	rootCmd.AddCommand(demoCmd)

	// tui command
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	rootCmd.AddCommand(tuiCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// resolveSeedPath returns the seed file to use, or "" for none configured
func resolveSeedPath(cfg *config.Config) string {
	if seedPath != "" {
		return config.ExpandPath(seedPath)
	}
	return cfg.General.SeedPath
}

// loadSeed reads the configured seed, falling back to the built-in sample
func loadSeed(cfg *config.Config) (*seed.Node, error) {
	path := resolveSeedPath(cfg)
	if path == "" {
		return seed.Sample(), nil
	}
	return seed.LoadFile(path)
}

func loadTree(cfg *config.Config) (*hierarchy.Tree, error) {
	root, err := loadSeed(cfg)
	if err != nil {
		return nil, err
	}
	tree := hierarchy.New()
	if err := seed.Build(tree, root); err != nil {
		return nil, err
	}
	return tree, nil
}

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{Indent: cfg.Display.Indent, Styled: cfg.Display.Styled}
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	tree := hierarchy.New()
	if shellSample || resolveSeedPath(cfg) != "" {
		tree, err = loadTree(cfg)
		if err != nil {
			return err
		}
	}

	c := console.New(tree, cmd.InOrStdin(), cmd.OutOrStdout(), renderOptions(cfg), logger)
	return c.Run()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	tree, err := loadTree(cfg)
	if err != nil {
		return err
	}

	opts := renderOptions(cfg)
	if showStyled {
		opts.Styled = true
	}
	out := cmd.OutOrStdout()
	if err := render.Tree(out, tree.Render(), opts); err != nil {
		return err
	}
	fmt.Fprintln(out, render.Summary(tree.Len(), tree.Depth()))
	return nil
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	tree, err := loadTree(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("id") {
		e, err := tree.FindByID(findID)
		if err != nil {
			return errors.Wrapf(err, "id %d", findID)
		}
		fmt.Fprintln(out, e.String())
		return nil
	}

	found := tree.FindAllByPosition(findPosition)
	if len(found) == 0 {
		fmt.Fprintf(out, "No employees found with position '%s'.\n", findPosition)
		return nil
	}
	for _, e := range found {
		fmt.Fprintln(out, e.String())
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	// The TUI owns the terminal; keep log lines from tearing the screen
	logger.SetLevel(logrus.ErrorLevel)

	root, err := loadSeed(cfg)
	if err != nil {
		return err
	}
	svc := orgservice.New(logger)
	if err := svc.Load(root); err != nil {
		return err
	}

	model := tui.NewModel(tui.ModelConfig{
		Service: svc,
		Indent:  cfg.Display.Indent,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
