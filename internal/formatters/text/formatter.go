// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"name-resolve/internal/formatters"
	"name-resolve/internal/formatters/shared"
	"name-resolve/internal/match"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(results []match.RecordResult, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	if len(results) == 0 {
		return "No records processed.", nil
	}

	filtered := shared.FilterSuggestionsByConfidence(results, options)

	var builder strings.Builder
	for i := range filtered {
		f.appendRecord(&builder, &filtered[i], options)
	}
	f.appendSummary(&builder, filtered)
	return builder.String(), nil
}

// appendRecord renders one record with its ranked suggestions
func (f *Formatter) appendRecord(builder *strings.Builder, result *match.RecordResult, options formatters.FormatterOptions) {
	header := f.colors["white"].Sprintf("Record %d: %s", result.Record.ID, result.Record.Text)
	builder.WriteString(header)
	builder.WriteString("\n")

	statusColor := f.statusColor(result.Status)
	builder.WriteString(fmt.Sprintf("  Status: %s", statusColor.Sprint(result.Status)))
	if result.Note != "" {
		builder.WriteString(fmt.Sprintf(" (%s)", result.Note))
	}
	builder.WriteString("\n")

	if options.Verbose {
		builder.WriteString(fmt.Sprintf("  Normalized: %s\n", result.Record.NormalizedText))
		if result.Record.ExtractedLastName != "" || result.Record.ExtractedFirstName != "" {
			builder.WriteString(fmt.Sprintf("  Extracted name: %s %s\n",
				result.Record.ExtractedFirstName, result.Record.ExtractedLastName))
		}
	}

	for rank, sug := range result.Suggestions {
		confColor := f.confidenceColor(sug.Confidence)
		builder.WriteString(fmt.Sprintf("  %d. %s", rank+1, f.colors["cyan"].Sprint(sug.MatchedName)))
		if sug.MatchedCity != "" {
			builder.WriteString(fmt.Sprintf(" (%s)", sug.MatchedCity))
		}
		builder.WriteString(fmt.Sprintf("  score %.2f  %s", sug.CombinedScore, confColor.Sprint(strings.ToUpper(string(sug.Confidence)))))
		if sug.PhoneticMatch {
			builder.WriteString("  [phonetic]")
		}
		builder.WriteString("\n")
		if options.Verbose {
			builder.WriteString(fmt.Sprintf("     full=%.2f last=%.2f first=%.2f city=%.2f via %s\n",
				sug.FullNameScore, sug.LastNameScore, sug.FirstNameScore, sug.CityScore, sug.Algorithm))
		}
	}
	builder.WriteString("\n")
}

// appendSummary renders batch totals at the end of the report
func (f *Formatter) appendSummary(builder *strings.Builder, results []match.RecordResult) {
	var matched, failed, suggestions int
	for i := range results {
		switch results[i].Status {
		case match.StatusMatched:
			matched++
		case match.StatusFailed:
			failed++
		}
		suggestions += len(results[i].Suggestions)
	}
	builder.WriteString(fmt.Sprintf("Summary: %d records, %d matched, %d failed, %d suggestions\n",
		len(results), matched, failed, suggestions))
}

func (f *Formatter) statusColor(status match.RecordStatus) *color.Color {
	switch status {
	case match.StatusMatched:
		return f.colors["green"]
	case match.StatusFailed:
		return f.colors["red"]
	default:
		return f.colors["yellow"]
	}
}

func (f *Formatter) confidenceColor(level match.ConfidenceLevel) *color.Color {
	switch level {
	case match.ConfidenceHigh:
		return f.colors["green"]
	case match.ConfidenceMedium:
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
