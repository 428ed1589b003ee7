// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strconv"
	"strings"

	"name-resolve/internal/formatters"
	"name-resolve/internal/formatters/shared"
	"name-resolve/internal/match"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(results []match.RecordResult, options formatters.FormatterOptions) (string, error) {
	filtered := shared.FilterSuggestionsByConfidence(results, options)

	headers := []string{"Record ID", "Record Text", "Status", "Entry ID", "Matched Name", "Matched City",
		"Combined Score", "Confidence Level", "Algorithm"}
	if options.Verbose {
		headers = append(headers, "Full Name Score", "Last Name Score", "First Name Score", "City Score", "Phonetic Match")
	}

	// Start with header row
	csvRows := []string{strings.Join(headers, ",")}

	// One row per suggestion; records without suggestions get a single
	// row with empty candidate columns so they still show up.
	for _, result := range filtered {
		if len(result.Suggestions) == 0 {
			csvRows = append(csvRows, f.createEmptyRow(result, options))
			continue
		}
		for _, sug := range result.Suggestions {
			csvRows = append(csvRows, f.createCSVRow(result, sug, options))
		}
	}

	return strings.Join(csvRows, "\n"), nil
}

// createCSVRow creates a CSV row for one suggestion
func (f *Formatter) createCSVRow(result match.RecordResult, sug match.Suggestion, options formatters.FormatterOptions) string {
	row := []string{
		strconv.FormatInt(result.Record.ID, 10),
		f.escapeCSVField(result.Record.Text),
		string(result.Status),
		strconv.FormatInt(sug.EntryID, 10),
		f.escapeCSVField(sug.MatchedName),
		f.escapeCSVField(sug.MatchedCity),
		formatScore(sug.CombinedScore),
		string(sug.Confidence),
		string(sug.Algorithm),
	}

	if options.Verbose {
		row = append(row,
			formatScore(sug.FullNameScore),
			formatScore(sug.LastNameScore),
			formatScore(sug.FirstNameScore),
			formatScore(sug.CityScore),
			strconv.FormatBool(sug.PhoneticMatch),
		)
	}

	return strings.Join(row, ",")
}

// createEmptyRow creates a row for a record with no surviving suggestions
func (f *Formatter) createEmptyRow(result match.RecordResult, options formatters.FormatterOptions) string {
	row := []string{
		strconv.FormatInt(result.Record.ID, 10),
		f.escapeCSVField(result.Record.Text),
		string(result.Status),
		"", "", "", "", "", "",
	}
	if options.Verbose {
		row = append(row, "", "", "", "", "")
	}
	return strings.Join(row, ",")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	// Prevent CSV injection by sanitizing formula characters
	field = f.sanitizeFormulaInjection(field)

	// If field contains comma, quote, or newline, wrap in quotes and escape internal quotes
	if strings.Contains(field, ",") || strings.Contains(field, "\"") || strings.Contains(field, "\n") || strings.Contains(field, "\r") {
		// Escape internal quotes by doubling them
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prevents CSV injection attacks by sanitizing formula characters
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		// Prefix with single quote to prevent formula execution
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
