// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"name-resolve/internal/formatters"
)

// System manages help content for the application
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"header":  color.New(color.FgBlue, color.Bold),
			"item":    color.New(color.FgCyan),
			"example": color.New(color.FgMagenta),
		},
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("Name Resolve - Bailiff Name Matching Tool")
	fmt.Println("=========================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  name-resolve --records <path> --registry <path> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --records\t<path>\tPath to the JSON file of raw records to match (required)")
	fmt.Fprintln(w, "  --registry\t<path>\tPath to the JSON file of reference entries (required)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json, csv, yaml (default: text)")
	fmt.Fprintln(w, "  --confidence\t<levels>\tConfidence levels to display: high,medium,low,all (default: all)")
	fmt.Fprintln(w, "  --top-k\t<n>\tMaximum suggestions kept per record (default: 5)")
	fmt.Fprintln(w, "  --min-score\t<score>\tMinimum full-name score for a candidate to survive (default: 40)")
	fmt.Fprintln(w, "  --workers\t<n>\tWorker count for batch matching (default: one per CPU)")
	fmt.Fprintln(w, "  --output\t<path>\tPath to output file (if not specified, output to stdout)")
	fmt.Fprintln(w, "  --verbose\t\tDisplay score breakdowns and derived fields")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of the matching pipeline")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --list-formats\t\tList available output formats")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	w.Flush()

	fmt.Println()
	h.colors["header"].Println("EXAMPLES:")
	fmt.Println("  Basic Usage:")
	h.colors["example"].Println("    name-resolve --records records.json --registry registry.json")
	h.colors["example"].Println("    name-resolve --records records.json --registry registry.json --confidence high,medium --verbose")
	fmt.Println("  Machine-readable output:")
	h.colors["example"].Println("    name-resolve --records records.json --registry registry.json --format json --output results.json")
	fmt.Println()
}

// ShowFormats lists the registered output formats
func (h *System) ShowFormats() {
	h.colors["header"].Println("AVAILABLE FORMATS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, info := range formatters.GetSupportedFormats() {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", h.colors["item"].Sprint(info.Name), info.Extension, info.Description)
	}
	w.Flush()
}
