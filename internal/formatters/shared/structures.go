// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"name-resolve/internal/formatters"
	"name-resolve/internal/match"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Results []JSONRecord `json:"results" yaml:"results"`
}

// JSONRecord represents one record outcome in JSON/YAML format
type JSONRecord struct {
	RecordID           int64            `json:"record_id" yaml:"record_id"`
	Text               string           `json:"text" yaml:"text"`
	Status             string           `json:"status" yaml:"status"`
	Note               string           `json:"note,omitempty" yaml:"note,omitempty"`
	Suggestions        []JSONSuggestion `json:"suggestions" yaml:"suggestions"`
	NormalizedText     string           `json:"normalized_text,omitempty" yaml:"normalized_text,omitempty"`
	ExtractedFirstName string           `json:"extracted_first_name,omitempty" yaml:"extracted_first_name,omitempty"`
	ExtractedLastName  string           `json:"extracted_last_name,omitempty" yaml:"extracted_last_name,omitempty"`
}

// JSONSuggestion represents a single ranked candidate in JSON/YAML format
type JSONSuggestion struct {
	EntryID         int64   `json:"entry_id" yaml:"entry_id"`
	MatchedName     string  `json:"matched_name" yaml:"matched_name"`
	MatchedCity     string  `json:"matched_city,omitempty" yaml:"matched_city,omitempty"`
	CombinedScore   float64 `json:"combined_score" yaml:"combined_score"`
	FullNameScore   float64 `json:"full_name_score" yaml:"full_name_score"`
	LastNameScore   float64 `json:"last_name_score" yaml:"last_name_score"`
	FirstNameScore  float64 `json:"first_name_score" yaml:"first_name_score"`
	CityScore       float64 `json:"city_score" yaml:"city_score"`
	Algorithm       string  `json:"algorithm_used" yaml:"algorithm_used"`
	ConfidenceLevel string  `json:"confidence_level" yaml:"confidence_level"`
	PhoneticMatch   bool    `json:"phonetic_match" yaml:"phonetic_match"`
}

// FilterSuggestionsByConfidence drops suggestions whose confidence tier is
// not selected in the options. Records always stay in the output so the
// reader can see which ones lost all candidates to the filter.
func FilterSuggestionsByConfidence(results []match.RecordResult, options formatters.FormatterOptions) []match.RecordResult {
	filtered := make([]match.RecordResult, len(results))
	for i, result := range results {
		kept := result
		kept.Suggestions = nil
		for _, sug := range result.Suggestions {
			if options.ConfidenceLevel[string(sug.Confidence)] {
				kept.Suggestions = append(kept.Suggestions, sug)
			}
		}
		filtered[i] = kept
	}
	return filtered
}

// ConvertResultsToJSONFormat converts batch results to the JSON/YAML structure
func ConvertResultsToJSONFormat(results []match.RecordResult, options formatters.FormatterOptions) JSONResponse {
	jsonRecords := make([]JSONRecord, 0, len(results))
	for _, result := range results {
		jsonRecord := JSONRecord{
			RecordID:    result.Record.ID,
			Text:        result.Record.Text,
			Status:      string(result.Status),
			Note:        result.Note,
			Suggestions: make([]JSONSuggestion, 0, len(result.Suggestions)),
		}

		if options.Verbose {
			jsonRecord.NormalizedText = result.Record.NormalizedText
			jsonRecord.ExtractedFirstName = result.Record.ExtractedFirstName
			jsonRecord.ExtractedLastName = result.Record.ExtractedLastName
		}

		for _, sug := range result.Suggestions {
			jsonRecord.Suggestions = append(jsonRecord.Suggestions, JSONSuggestion{
				EntryID:         sug.EntryID,
				MatchedName:     sug.MatchedName,
				MatchedCity:     sug.MatchedCity,
				CombinedScore:   sug.CombinedScore,
				FullNameScore:   sug.FullNameScore,
				LastNameScore:   sug.LastNameScore,
				FirstNameScore:  sug.FirstNameScore,
				CityScore:       sug.CityScore,
				Algorithm:       string(sug.Algorithm),
				ConfidenceLevel: string(sug.Confidence),
				PhoneticMatch:   sug.PhoneticMatch,
			})
		}

		jsonRecords = append(jsonRecords, jsonRecord)
	}

	return JSONResponse{Results: jsonRecords}
}
