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

func convertCmd() *cobra.Command {
	var (
		formatToken string
		outputDir   string
		comments    []string
	)

	cmd := &cobra.Command{
		Use:   "convert [files or directories...]",
		Short: "Convert RDF files to another serialization",
		Long: `Convert reads each input file, detecting its serialization from
the file extension, and writes it back out in the requested format.
Directories are expanded to the RDF files they contain. Leading
comments in Turtle inputs are carried over when the output is also
Turtle.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := graph.ParseFormat(formatToken)
			if err != nil {
				return err
			}
			return runConvert(cmd.Context(), args, format, outputDir, comments)
		},
	}

	cmd.Flags().StringVarP(&formatToken, "format", "f", "", "Target serialization (turtle, xml, json-ld, nt, n3)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: alongside each input)")
	cmd.Flags().StringArrayVar(&comments, "comment", nil, "Leading comment line to prepend (turtle output only, repeatable)")
	_ = cmd.MarkFlagRequired("format")

	return cmd
}

func runConvert(ctx context.Context, paths []string, format graph.Format, outputDir string, comments []string) error {
	files, err := persistence.PrepareFilesList(paths...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no RDF files found in %s", strings.Join(paths, ", "))
	}

	for _, file := range files {
		outPath, err := convertFile(ctx, file, format, outputDir, comments)
		if err != nil {
			return fmt.Errorf("convert %s: %w", file, err)
		}
		slog.Info("Converted", "from", file, "to", outPath)
	}
	return nil
}

// convertFile rewrites one file in the target serialization and
// returns the output path.
func convertFile(ctx context.Context, path string, format graph.Format, outputDir string, extraComments []string) (string, error) {
	inFormat, err := graph.GuessFormat(path)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	fileComments, g, err := persistence.DecodeDocument(string(raw), inFormat)
	if err != nil {
		return "", err
	}

	comments := append(extraComments, fileComments...)
	if format != graph.FormatTurtle && len(comments) > 0 {
		slog.Warn("Comments are only preserved in turtle output, dropping",
			"file", path, "format", format)
		comments = nil
	}

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	backend, err := persistence.NewFile(dir)
	if err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return backend.Write(ctx, g, name, format, comments)
}
