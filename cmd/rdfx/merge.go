package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/surroundaustralia/rdfx/graph"
	"github.com/surroundaustralia/rdfx/persistence"
)

func mergeCmd() *cobra.Command {
	var (
		formatToken string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "merge [files or directories...]",
		Short: "Merge RDF files into a single graph",
		Long: `Merge parses every input file and combines the statements into
one deduplicated graph, written to the output file in the requested
format. Prefix bindings from all inputs are combined; on a prefix
clash the binding from the later input wins.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := graph.ParseFormat(formatToken)
			if err != nil {
				return err
			}
			return runMerge(cmd.Context(), args, format, output)
		},
	}

	cmd.Flags().StringVarP(&formatToken, "format", "f", "turtle", "Output serialization (turtle, xml, json-ld, nt, n3)")
	cmd.Flags().StringVarP(&output, "output", "o", "merged.ttl", "Output file path")

	return cmd
}

func runMerge(ctx context.Context, paths []string, format graph.Format, output string) error {
	files, err := persistence.PrepareFilesList(paths...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no RDF files found in %s", strings.Join(paths, ", "))
	}

	merged := graph.New()
	for _, file := range files {
		inFormat, err := graph.GuessFormat(file)
		if err != nil {
			return fmt.Errorf("merge %s: %w", file, err)
		}
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("merge %s: %w", file, err)
		}
		_, g, err := persistence.DecodeDocument(string(raw), inFormat)
		if err != nil {
			return fmt.Errorf("merge %s: %w", file, err)
		}
		merged.Merge(g)
		slog.Debug("Merged", "file", file, "statements", g.Len())
	}

	backend, err := persistence.NewFile(filepath.Dir(output))
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	outPath, err := backend.Write(ctx, merged, name, format, nil)
	if err != nil {
		return err
	}

	slog.Info("Merged", "files", len(files), "statements", merged.Len(), "output", outPath)
	return nil
}
