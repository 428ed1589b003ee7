// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scorer ranks registry entries against a processed record. Each
// candidate gets a weighted combination of full-name, surname, first-name
// and city similarity, with multipliers for strong city agreement and for
// algorithms that outperform the plain ratio.
package scorer

import (
	"strings"

	"name-resolve/internal/config"
	"name-resolve/internal/extractor"
	"name-resolve/internal/match"
	"name-resolve/internal/normalizer"
	"name-resolve/internal/similarity"
)

// Multipliers applied after the weighted combination.
const (
	strongCityBonus   = 1.10 // city score >= strongCityScore
	weakCityBonus     = 1.05 // city score >= weakCityScore
	strongCityScore   = 80
	weakCityScore     = 60
	tokenSortBonus    = 1.05 // token sort beat the plain ratio
	partialRatioBonus = 1.03 // partial ratio beat the plain ratio
)

// Scorer scores and ranks registry candidates for raw records.
type Scorer struct {
	cfg config.MatcherConfig
	ext *extractor.Extractor
}

// New returns a scorer using the given matcher parameters and extractor.
func New(cfg config.MatcherConfig, ext *extractor.Extractor) *Scorer {
	return &Scorer{cfg: cfg, ext: ext}
}

// Prepare populates the derived fields of rec: the normalized text and
// the extracted name parts. When the institutional extractor finds no
// name, the token-position fallback on the normalized text is used.
func (s *Scorer) Prepare(rec *match.RawRecord) {
	rec.NormalizedText = normalizer.Normalize(rec.Text)

	first, last := s.ext.ExtractPersonName(rec.Text)
	if first == "" && last == "" {
		first, last = normalizer.ExtractNameParts(rec.NormalizedText)
	}
	rec.ExtractedFirstName = first
	rec.ExtractedLastName = last
}

// Score ranks all registry entries against a prepared record and returns
// at most TopK suggestions, best first. Entries whose full-name score
// falls below the configured floor are dropped entirely.
func (s *Scorer) Score(rec *match.RawRecord, entries []match.ReferenceEntry) []match.Suggestion {
	searchVariants := s.searchVariants(rec)
	if len(searchVariants) == 0 {
		return nil
	}

	suggestions := make([]match.Suggestion, 0, len(entries))
	for i := range entries {
		if sug, ok := s.scoreEntry(rec, &entries[i], searchVariants); ok {
			suggestions = append(suggestions, sug)
		}
	}

	match.SortSuggestions(suggestions)
	if len(suggestions) > s.cfg.TopK {
		suggestions = suggestions[:s.cfg.TopK]
	}
	return suggestions
}

// Classify maps a combined score onto a confidence tier. Every finite
// score lands in exactly one tier.
func (s *Scorer) Classify(score float64) match.ConfidenceLevel {
	switch {
	case score >= s.cfg.Thresholds.High:
		return match.ConfidenceHigh
	case score >= s.cfg.Thresholds.Medium:
		return match.ConfidenceMedium
	default:
		return match.ConfidenceLow
	}
}

// searchVariants builds the deduplicated query strings for one record:
// the normalized text plus both orderings of the extracted name parts.
func (s *Scorer) searchVariants(rec *match.RawRecord) []string {
	candidates := []string{rec.NormalizedText}
	if rec.ExtractedLastName != "" && rec.ExtractedFirstName != "" {
		candidates = append(candidates,
			normalizer.Normalize(rec.ExtractedLastName+" "+rec.ExtractedFirstName),
			normalizer.Normalize(rec.ExtractedFirstName+" "+rec.ExtractedLastName),
		)
	} else if rec.ExtractedLastName != "" {
		candidates = append(candidates, normalizer.Normalize(rec.ExtractedLastName))
	}
	return dedup(candidates)
}

// referenceVariants builds the deduplicated comparison strings for one
// registry entry.
func referenceVariants(entry *match.ReferenceEntry) []string {
	candidates := []string{entry.NormalizedFullName}
	if entry.NormalizedFirstName != "" {
		candidates = append(candidates,
			entry.NormalizedLastName+" "+entry.NormalizedFirstName,
			entry.NormalizedFirstName+" "+entry.NormalizedLastName,
		)
	} else {
		candidates = append(candidates, entry.NormalizedLastName)
	}
	candidates = append(candidates,
		strings.ToLower(strings.TrimSpace(entry.LastName+" "+entry.FirstName)))
	return dedup(candidates)
}

func (s *Scorer) scoreEntry(rec *match.RawRecord, entry *match.ReferenceEntry, searchVariants []string) (match.Suggestion, bool) {
	refVariants := referenceVariants(entry)

	var bestRatio, bestTokenSort, bestPartial float64
	for _, sv := range searchVariants {
		for _, rv := range refVariants {
			if r := similarity.Ratio(sv, rv); r > bestRatio {
				bestRatio = r
			}
			if ts := similarity.TokenSortRatio(sv, rv); ts > bestTokenSort {
				bestTokenSort = ts
			}
			if p := similarity.PartialRatio(sv, rv); p > bestPartial {
				bestPartial = p
			}
		}
	}

	fullNameScore := max3(bestRatio, bestTokenSort, bestPartial)
	if fullNameScore < s.cfg.MinFullNameScore {
		return match.Suggestion{}, false
	}

	lastNameScore := fieldScore(rec.ExtractedLastName, entry.NormalizedLastName)
	firstNameScore := fieldScore(rec.ExtractedFirstName, entry.NormalizedFirstName)
	cityScore := cityScore(rec.SourceCity, entry.City)

	combined := fullNameScore*s.cfg.Weights.FullName +
		lastNameScore*s.cfg.Weights.LastName +
		firstNameScore*s.cfg.Weights.FirstName +
		cityScore*s.cfg.Weights.City

	switch {
	case cityScore >= strongCityScore:
		combined *= strongCityBonus
	case cityScore >= weakCityScore:
		combined *= weakCityBonus
	}

	algorithm := match.AlgorithmRatio
	switch {
	case bestTokenSort > bestRatio:
		combined *= tokenSortBonus
		algorithm = match.AlgorithmTokenSort
	case bestPartial > bestRatio:
		combined *= partialRatioBonus
		algorithm = match.AlgorithmPartial
	}

	combined = clamp(combined)

	return match.Suggestion{
		EntryID:        entry.ID,
		MatchedName:    matchedName(entry),
		MatchedCity:    entry.City,
		FullNameScore:  fullNameScore,
		LastNameScore:  lastNameScore,
		FirstNameScore: firstNameScore,
		CityScore:      cityScore,
		CombinedScore:  combined,
		Algorithm:      algorithm,
		Confidence:     s.Classify(combined),
		PhoneticMatch:  similarity.PhoneticMatch(rec.ExtractedLastName, entry.LastName),
	}, true
}

// fieldScore compares one extracted name part against its normalized
// registry counterpart. Missing data on either side scores zero rather
// than penalizing or inflating the candidate.
func fieldScore(extracted, normalizedRef string) float64 {
	if extracted == "" || normalizedRef == "" {
		return 0
	}
	folded := normalizer.Fold(extracted)
	r := similarity.Ratio(folded, normalizedRef)
	if p := similarity.PartialRatio(folded, normalizedRef); p > r {
		return p
	}
	return r
}

// cityScore compares the record's source city with the entry's city.
func cityScore(recordCity, entryCity string) float64 {
	a := strings.ToLower(strings.TrimSpace(recordCity))
	b := strings.ToLower(strings.TrimSpace(entryCity))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	return similarity.Ratio(a, b)
}

func matchedName(entry *match.ReferenceEntry) string {
	if entry.FirstName == "" {
		return entry.LastName
	}
	return entry.LastName + " " + entry.FirstName
}

func dedup(variants []string) []string {
	seen := make(map[string]bool, len(variants))
	out := variants[:0]
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
