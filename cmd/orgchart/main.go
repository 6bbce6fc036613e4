package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	seedPath   string
	logLevel   string
	rootCmd    = &cobra.Command{
		Use:   "orgchart",
		Short: "Orgchart - company hierarchy manager",
		Long: `Orgchart keeps a company's reporting hierarchy in memory and lets you
create, search, update, promote, demote and delete employees from an
interactive menu, a terminal UI or an HTTP API.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML or TOML company document to load (default: built-in sample)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
