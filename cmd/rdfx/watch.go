package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surroundaustralia/rdfx/graph"
	"github.com/surroundaustralia/rdfx/watch"
)

func watchCmd() *cobra.Command {
	var (
		formatToken string
		outputDir   string
		debounce    string
	)

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a directory and convert RDF files as they change",
		Long: `Watch observes a directory tree and re-converts each RDF file to
the requested serialization whenever it is created or modified. Runs
until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := graph.ParseFormat(formatToken)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), args[0], format, outputDir, debounce)
		},
	}

	cmd.Flags().StringVarP(&formatToken, "format", "f", "turtle", "Target serialization (turtle, xml, json-ld, nt, n3)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: alongside each input)")
	cmd.Flags().StringVar(&debounce, "debounce", "500ms", "Delay before processing a burst of changes")

	return cmd
}

func runWatch(ctx context.Context, dir string, format graph.Format, outputDir, debounce string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := watch.DefaultConfig()
	cfg.DebounceDelay = debounce

	watcher, err := watch.New(cfg, dir, slog.Default())
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if event.Operation == watch.OpDelete {
				slog.Info("File removed", "path", event.Path)
				continue
			}
			// skip files already in the target serialization when they
			// convert in place, or the output would retrigger the watch
			if event.Format == format && outputDir == "" {
				continue
			}
			outPath, err := convertFile(ctx, event.AbsPath, format, outputDir, nil)
			if err != nil {
				slog.Error("Conversion failed", "path", event.Path, "error", err)
				continue
			}
			slog.Info("Converted", "from", event.Path, "to", outPath)
		}
	}
}
