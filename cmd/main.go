// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"name-resolve/internal/config"
	"name-resolve/internal/engine"
	"name-resolve/internal/extractor"
	"name-resolve/internal/formatters"
	"name-resolve/internal/gazetteer"
	"name-resolve/internal/help"
	"name-resolve/internal/match"
	"name-resolve/internal/observability"
	"name-resolve/internal/registry"
	"name-resolve/internal/scorer"

	// Register the output formatters
	_ "name-resolve/internal/formatters/csv"
	_ "name-resolve/internal/formatters/json"
	_ "name-resolve/internal/formatters/text"
	_ "name-resolve/internal/formatters/yaml"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	recordsFile := flag.String("records", "", "Path to the JSON file of raw records to match")
	registryFile := flag.String("registry", "", "Path to the JSON file of reference entries")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	outputFormat := flag.String("format", "", "Output format: text, json, csv, yaml (default: text)")
	confidenceLevels := flag.String("confidence", "", "Confidence levels to display: high, medium, low, or combinations like 'high,medium'")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	topK := flag.Int("top-k", -1, "Maximum suggestions kept per record")
	minScore := flag.Float64("min-score", -1, "Minimum full-name score for a candidate to survive")
	workers := flag.Int("workers", -1, "Worker count for batch matching (default: one per CPU)")
	verbose := flag.Bool("verbose", false, "Display score breakdowns and derived fields")
	debug := flag.Bool("debug", false, "Enable debug logging of the matching pipeline")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	listFormats := flag.Bool("list-formats", false, "List available output formats")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("name-resolve %s\n", Version)
		os.Exit(0)
	}
	if *showHelp {
		help.NewSystem(*noColor).ShowGeneralHelp()
		os.Exit(0)
	}
	if *listFormats {
		help.NewSystem(*noColor).ShowFormats()
		os.Exit(0)
	}

	cfg := config.LoadConfigOrDefault(*configFile)
	applyFlagOverrides(cfg, *outputFormat, *confidenceLevels, *topK, *minScore, *workers, *verbose, *debug, *noColor)
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *recordsFile == "" || *registryFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --records and --registry are required")
		fmt.Fprintln(os.Stderr, "Run with --help for usage")
		os.Exit(1)
	}

	records, err := loadRecords(*recordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		os.Exit(1)
	}
	store, err := loadRegistry(*registryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		os.Exit(1)
	}

	gaz, err := gazetteer.Load(gazetteer.Options{
		FirstNamesFile: cfg.Gazetteer.FirstNamesFile,
		StopWordsFile:  cfg.Gazetteer.StopWordsFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading gazetteer: %v\n", err)
		os.Exit(1)
	}

	observer := buildObserver(cfg)
	sc := scorer.New(cfg.Matcher, extractor.New(gaz))
	eng := engine.New(cfg, sc, observer)

	result, err := eng.MatchBatch(context.Background(), records, store.Entries())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running batch: %v\n", err)
		os.Exit(1)
	}

	// Disable colors when writing to a file or a non-terminal
	useColor := !cfg.Defaults.NoColor && *outputFile == "" && isTerminal(os.Stdout)
	options := formatters.FormatterOptions{
		ConfidenceLevel: parseConfidenceLevels(cfg.Defaults.ConfidenceLevels),
		Verbose:         cfg.Defaults.Verbose,
		NoColor:         !useColor,
	}

	output, err := formatters.Export(cfg.Defaults.Format, result.Results, options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(output)
	}

	if cfg.Defaults.Verbose {
		fmt.Fprintf(os.Stderr, "Batch %s: %d records, %d matched, %d failed in %s\n",
			result.BatchID, result.TotalRecords, result.MatchedRecords, result.FailedRecords, result.Duration)
	}
}

// applyFlagOverrides layers explicit command line values over the config file
func applyFlagOverrides(cfg *config.Config, format, confidence string, topK int, minScore float64, workers int, verbose, debug, noColor bool) {
	if format != "" {
		cfg.Defaults.Format = format
	}
	if confidence != "" {
		cfg.Defaults.ConfidenceLevels = confidence
	}
	if topK >= 0 {
		cfg.Matcher.TopK = topK
	}
	if minScore >= 0 {
		cfg.Matcher.MinFullNameScore = minScore
	}
	if workers >= 0 {
		cfg.Matcher.Workers = workers
	}
	if verbose {
		cfg.Defaults.Verbose = true
	}
	if debug {
		cfg.Defaults.Debug = true
	}
	if noColor {
		cfg.Defaults.NoColor = true
	}
}

// buildObserver picks the observability level from the config
func buildObserver(cfg *config.Config) *observability.StandardObserver {
	if cfg.Defaults.Debug {
		dbg := observability.NewDebugObserver(os.Stderr)
		dbg.StandardObserver.DebugObserver = dbg
		return dbg.StandardObserver
	}
	if cfg.Defaults.Verbose {
		return observability.NewStandardObserver(observability.ObservabilityMetrics, os.Stderr)
	}
	return observability.NewStandardObserver(observability.ObservabilityOff, os.Stderr)
}

// loadRecords reads raw records from a JSON array. Records without an ID
// get sequential ones so results stay addressable.
func loadRecords(path string) ([]match.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []match.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	// Backfill starts above the highest explicit ID so assigned IDs
	// never collide with ones from the input.
	nextID := int64(0)
	for i := range records {
		if records[i].ID > nextID {
			nextID = records[i].ID
		}
	}
	for i := range records {
		if records[i].ID == 0 {
			nextID++
			records[i].ID = nextID
		}
	}
	return records, nil
}

// loadRegistry reads reference entries from a JSON array into a store,
// which derives the normalized fields.
func loadRegistry(path string) (*registry.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []match.ReferenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	store := registry.New()
	for i, entry := range entries {
		if _, err := store.Add(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return store, nil
}

// parseConfidenceLevels turns "high,medium" style input into a filter map
func parseConfidenceLevels(levels string) map[string]bool {
	filter := make(map[string]bool)
	levels = strings.TrimSpace(strings.ToLower(levels))
	if levels == "" || levels == "all" {
		filter["high"] = true
		filter["medium"] = true
		filter["low"] = true
		return filter
	}
	for _, level := range strings.Split(levels, ",") {
		level = strings.TrimSpace(level)
		if level != "" {
			filter[level] = true
		}
	}
	return filter
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
