package main

import (
	"context"
	"fmt"

	"github.com/hochfrequenz/orgchart/internal/observer"
	"github.com/hochfrequenz/orgchart/internal/orgservice"
	"github.com/hochfrequenz/orgchart/internal/seed"
	"github.com/hochfrequenz/orgchart/web/api"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort  int
	serveWatch bool
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the company when the seed file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	root, err := loadSeed(cfg)
	if err != nil {
		return err
	}
	svc := orgservice.New(logger)
	if err := svc.Load(root); err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = cfg.Web.Port
	}
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, port)
	server := api.NewServer(svc, addr, logger)

	g, ctx := errgroup.WithContext(cmd.Context())

	if serveWatch {
		path := resolveSeedPath(cfg)
		if path == "" {
			return errors.New("--watch needs a seed file (--seed or general.seed_path)")
		}
		watcher, err := observer.NewSeedWatcher(path, reloadSeed(svc, logger), logger)
		if err != nil {
			return errors.Wrap(err, "watching seed")
		}
		g.Go(func() error {
			watcher.Start(ctx)
			<-ctx.Done()
			watcher.Stop()
			watcher.Wait()
			return nil
		})
	}

	g.Go(func() error {
		return server.Start(ctx)
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Serving API at http://%s\n", addr)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reloadSeed replaces the company with the seed file's new contents. A seed
// that fails to parse leaves the current company in place.
func reloadSeed(svc *orgservice.Service, log logrus.FieldLogger) observer.SeedChangeCallback {
	return func(path string) {
		root, err := seed.LoadFile(path)
		if err != nil {
			log.WithError(err).Warn("seed reload failed, keeping current company")
			return
		}
		if err := svc.Load(root); err != nil {
			log.WithError(err).Warn("seed reload failed, keeping current company")
			return
		}
		log.WithField("seed", path).Info("company reloaded")
	}
}
