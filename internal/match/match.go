// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package match

import "sort"

// ConfidenceLevel classifies a combined score into a discrete review tier.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Algorithm identifies which similarity algorithm produced the winning
// full-name score for a suggestion.
type Algorithm string

const (
	AlgorithmRatio     Algorithm = "ratio"
	AlgorithmTokenSort Algorithm = "token_sort_ratio"
	AlgorithmPartial   Algorithm = "partial_ratio"
)

// RawRecord is one free-text name awaiting resolution against the registry.
// The persistence layer assigns IDs and owns the lifecycle; normalization
// and extraction populate the derived fields exactly once.
type RawRecord struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`

	// Derived by the normalizer/extractor. Empty until processing runs.
	NormalizedText     string `json:"normalized_text,omitempty"`
	ExtractedFirstName string `json:"extracted_first_name,omitempty"`
	ExtractedLastName  string `json:"extracted_last_name,omitempty"`

	// Optional side-channel attributes from the source row. Only the city
	// participates in scoring; the rest travel along for the review layer.
	SourceCity    string `json:"source_city,omitempty"`
	SourceEmail   string `json:"source_email,omitempty"`
	SourcePhone   string `json:"source_phone,omitempty"`
	SourceAddress string `json:"source_address,omitempty"`

	Processed bool `json:"processed"`
}

// ReferenceEntry is one canonical entity in the registry. The normalized
// fields are derived from the source fields and must never be stale; the
// registry store recomputes them on every write.
type ReferenceEntry struct {
	ID int64 `json:"id"`

	LastName  string `json:"last_name"`
	FirstName string `json:"first_name,omitempty"`
	City      string `json:"city,omitempty"`
	Court     string `json:"court,omitempty"`

	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`

	NormalizedLastName  string `json:"normalized_last_name,omitempty"`
	NormalizedFirstName string `json:"normalized_first_name,omitempty"`
	NormalizedCity      string `json:"normalized_city,omitempty"`
	NormalizedFullName  string `json:"normalized_full_name,omitempty"`
}

// Suggestion pairs one RawRecord with one ReferenceEntry and carries the
// full score breakdown so a reviewer can see why the candidate surfaced.
// Suggestions are transient: a re-run replaces them wholesale.
type Suggestion struct {
	EntryID     int64  `json:"entry_id"`
	MatchedName string `json:"matched_name"`
	MatchedCity string `json:"matched_city,omitempty"`

	FullNameScore  float64 `json:"full_name_score"`
	LastNameScore  float64 `json:"last_name_score"`
	FirstNameScore float64 `json:"first_name_score"`
	CityScore      float64 `json:"city_score"`
	CombinedScore  float64 `json:"combined_score"`

	Algorithm  Algorithm       `json:"algorithm_used"`
	Confidence ConfidenceLevel `json:"confidence_level"`

	// PhoneticMatch reports Double Metaphone agreement between the
	// extracted and registry surnames. Informational only; it never
	// contributes to CombinedScore.
	PhoneticMatch bool `json:"phonetic_match"`
}

// RecordStatus distinguishes the ways a record can come out of a batch.
// The review layer needs to tell "no good candidates" apart from
// "processing failed" and from "registry was empty".
type RecordStatus string

const (
	StatusMatched      RecordStatus = "matched"
	StatusNoMatch      RecordStatus = "no_match"
	StatusNoCandidates RecordStatus = "no_candidates"
	StatusFailed       RecordStatus = "failed"
)

// RecordResult is the per-record outcome of a batch run: the processed
// record with its derived fields, the ranked suggestions, and an explicit
// status with a diagnostic note.
type RecordResult struct {
	Record      RawRecord    `json:"record"`
	Status      RecordStatus `json:"status"`
	Suggestions []Suggestion `json:"suggestions"`
	Note        string       `json:"note,omitempty"`
}

// Best returns the top-ranked suggestion, or nil when there is none.
func (r *RecordResult) Best() *Suggestion {
	if len(r.Suggestions) == 0 {
		return nil
	}
	return &r.Suggestions[0]
}

// SortSuggestions orders suggestions by combined score descending, with
// ties broken by entry ID ascending so output is deterministic.
func SortSuggestions(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].CombinedScore != suggestions[j].CombinedScore {
			return suggestions[i].CombinedScore > suggestions[j].CombinedScore
		}
		return suggestions[i].EntryID < suggestions[j].EntryID
	})
}

// DecisionType is the review outcome for one record. Decisions are owned
// and persisted by the external review layer; the types live here so the
// boundary contract is explicit.
type DecisionType string

const (
	DecisionAccepted  DecisionType = "accepted"
	DecisionRejected  DecisionType = "rejected"
	DecisionManualNew DecisionType = "manual_new"
	DecisionNoMatch   DecisionType = "no_match"
)

// Decision references at most one suggestion for one record.
type Decision struct {
	RecordID   int64        `json:"record_id"`
	EntryID    *int64       `json:"entry_id,omitempty"`
	Type       DecisionType `json:"type"`
	Notes      string       `json:"notes,omitempty"`
	ReviewedBy string       `json:"reviewed_by,omitempty"`
}
