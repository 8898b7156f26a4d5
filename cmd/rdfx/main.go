// Package main provides the rdfx binary entry point.
// rdfx converts, merges and persists RDF graphs across files, object
// stores, SPARQL graph stores and ontology platforms.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/surroundaustralia/rdfx/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "rdfx"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "rdfx",
		Short: "RDF conversion and persistence tool",
		Long: `rdfx converts RDF between serializations and moves graphs
between persistence backends.

Supported serializations: turtle, xml, json-ld, nt, n3.
Supported backends: local files, S3-compatible object stores, JetStream
object stores, SPARQL graph stores (GraphDB, Fuseki) and SURROUND
Ontology Platform instances. Remote backends are configured as named
targets in rdfx.yaml.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel, logFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(convertCmd())
	cmd.AddCommand(mergeCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(pushCmd())
	cmd.AddCommand(pullCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel, logFormat string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(logFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the layered configuration for commands that talk to
// named targets.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader(slog.Default())
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
