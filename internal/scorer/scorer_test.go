// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-resolve/internal/config"
	"name-resolve/internal/extractor"
	"name-resolve/internal/gazetteer"
	"name-resolve/internal/match"
	"name-resolve/internal/registry"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	gaz, err := gazetteer.Load(gazetteer.Options{})
	require.NoError(t, err)
	return New(config.DefaultMatcherConfig(), extractor.New(gaz))
}

func buildEntries(t *testing.T, entries ...match.ReferenceEntry) []match.ReferenceEntry {
	t.Helper()
	store := registry.New()
	for _, e := range entries {
		_, err := store.Add(e)
		require.NoError(t, err)
	}
	return store.Entries()
}

func TestPreparePopulatesDerivedFields(t *testing.T) {
	sc := newTestScorer(t)

	rec := match.RawRecord{ID: 1, Text: "Komornik Sądowy przy Sądzie Rejonowym w Łodzi Jan Kowalski"}
	sc.Prepare(&rec)

	assert.Equal(t, "w lodzi jan kowalski", rec.NormalizedText)
	assert.Equal(t, "Jan", rec.ExtractedFirstName)
	assert.Equal(t, "Kowalski", rec.ExtractedLastName)
}

func TestPrepareFallsBackToTokenPositions(t *testing.T) {
	sc := newTestScorer(t)

	// No institutional markers and no gazetteer anchor: the token
	// position fallback on the normalized text applies.
	rec := match.RawRecord{ID: 1, Text: "Xyzabc Qwerty"}
	sc.Prepare(&rec)

	assert.Equal(t, "Xyzabc", rec.ExtractedFirstName)
	assert.Equal(t, "Qwerty", rec.ExtractedLastName)
}

func TestScoreExactMatch(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t, match.ReferenceEntry{
		LastName: "Kowalski", FirstName: "Jan", City: "Łódź",
	})

	rec := match.RawRecord{
		ID:         1,
		Text:       "Komornik Sądowy przy Sądzie Rejonowym w Łodzi Jan Kowalski",
		SourceCity: "Łódź",
	}
	sc.Prepare(&rec)

	suggestions := sc.Score(&rec, entries)
	require.Len(t, suggestions, 1)

	sug := suggestions[0]
	assert.Equal(t, entries[0].ID, sug.EntryID)
	assert.Equal(t, "Kowalski Jan", sug.MatchedName)
	assert.Equal(t, "Łódź", sug.MatchedCity)
	assert.Equal(t, float64(100), sug.FullNameScore)
	assert.Equal(t, float64(100), sug.LastNameScore)
	assert.Equal(t, float64(100), sug.FirstNameScore)
	assert.Equal(t, float64(100), sug.CityScore)
	assert.Equal(t, float64(100), sug.CombinedScore)
	assert.Equal(t, match.ConfidenceHigh, sug.Confidence)
	assert.Equal(t, match.AlgorithmRatio, sug.Algorithm)
	assert.True(t, sug.PhoneticMatch)
}

func TestScoreDropsCandidatesBelowFloor(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t, match.ReferenceEntry{
		LastName: "Wiśniewski", FirstName: "Bartłomiej", City: "Gdańsk",
	})

	rec := match.RawRecord{ID: 1, Text: "Zzz Qqq"}
	sc.Prepare(&rec)

	suggestions := sc.Score(&rec, entries)
	assert.Empty(t, suggestions)
}

func TestScoreRespectsTopK(t *testing.T) {
	cfg := config.DefaultMatcherConfig()
	cfg.TopK = 2
	gaz, err := gazetteer.Load(gazetteer.Options{})
	require.NoError(t, err)
	sc := New(cfg, extractor.New(gaz))

	entries := buildEntries(t,
		match.ReferenceEntry{LastName: "Kowalski", FirstName: "Jan"},
		match.ReferenceEntry{LastName: "Kowalsky", FirstName: "Jan"},
		match.ReferenceEntry{LastName: "Kowalska", FirstName: "Janina"},
	)

	rec := match.RawRecord{ID: 1, Text: "Jan Kowalski"}
	sc.Prepare(&rec)

	suggestions := sc.Score(&rec, entries)
	assert.LessOrEqual(t, len(suggestions), 2)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, entries[0].ID, suggestions[0].EntryID)
}

func TestScoreTieBreaksByEntryID(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t,
		match.ReferenceEntry{LastName: "Kowalski", FirstName: "Jan"},
		match.ReferenceEntry{LastName: "Kowalski", FirstName: "Jan"},
	)

	rec := match.RawRecord{ID: 1, Text: "Jan Kowalski"}
	sc.Prepare(&rec)

	suggestions := sc.Score(&rec, entries)
	require.Len(t, suggestions, 2)
	assert.Equal(t, suggestions[0].CombinedScore, suggestions[1].CombinedScore)
	assert.Less(t, suggestions[0].EntryID, suggestions[1].EntryID)
}

func TestScoreOrderingIsDescending(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t,
		match.ReferenceEntry{LastName: "Nowakowski", FirstName: "Janusz"},
		match.ReferenceEntry{LastName: "Kowalski", FirstName: "Jan"},
		match.ReferenceEntry{LastName: "Kowalczyk", FirstName: "Jan"},
	)

	rec := match.RawRecord{ID: 1, Text: "Jan Kowalski"}
	sc.Prepare(&rec)

	suggestions := sc.Score(&rec, entries)
	require.NotEmpty(t, suggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].CombinedScore, suggestions[i].CombinedScore)
	}
	assert.Equal(t, entries[1].ID, suggestions[0].EntryID)
}

func TestScoreBoundsAndTiers(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t,
		match.ReferenceEntry{LastName: "Kowalski", FirstName: "Jan", City: "Warszawa"},
		match.ReferenceEntry{LastName: "Kowalewski", FirstName: "Janusz", City: "Kraków"},
	)

	records := []match.RawRecord{
		{ID: 1, Text: "Jan Kowalski", SourceCity: "Warszawa"},
		{ID: 2, Text: "Kowalski", SourceCity: ""},
		{ID: 3, Text: "Janusz Kowalewski"},
	}

	for i := range records {
		sc.Prepare(&records[i])
		for _, sug := range sc.Score(&records[i], entries) {
			assert.GreaterOrEqual(t, sug.CombinedScore, float64(0))
			assert.LessOrEqual(t, sug.CombinedScore, float64(100))
			assert.Contains(t, []match.ConfidenceLevel{
				match.ConfidenceHigh, match.ConfidenceMedium, match.ConfidenceLow,
			}, sug.Confidence)
			assert.Equal(t, sc.Classify(sug.CombinedScore), sug.Confidence)
		}
	}
}

func TestScoreAlgorithmTag(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t, match.ReferenceEntry{LastName: "Kowalski", FirstName: "Jan"})

	// No extracted name parts: the only search variant is the long
	// normalized text, so the sliding window wins the full-name score
	// while the plain ratio stays low.
	rec := match.RawRecord{NormalizedText: "rejonowy warszawa kowalski jan"}

	suggestions := sc.Score(&rec, entries)
	require.Len(t, suggestions, 1)
	assert.Equal(t, float64(100), suggestions[0].FullNameScore)
	assert.Equal(t, match.AlgorithmPartial, suggestions[0].Algorithm)
}

func TestClassifyBoundaries(t *testing.T) {
	sc := newTestScorer(t)

	tests := []struct {
		score    float64
		expected match.ConfidenceLevel
	}{
		{100, match.ConfidenceHigh},
		{85, match.ConfidenceHigh},
		{84.99, match.ConfidenceMedium},
		{65, match.ConfidenceMedium},
		{64.99, match.ConfidenceLow},
		{0, match.ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sc.Classify(tt.score), "score %v", tt.score)
	}
}

func TestScoreCityMismatchScoresLowerThanCityMatch(t *testing.T) {
	sc := newTestScorer(t)
	entries := buildEntries(t, match.ReferenceEntry{
		LastName: "Kowalski", FirstName: "Jan", City: "Warszawa",
	})

	withCity := match.RawRecord{ID: 1, Text: "Jan Kowalski", SourceCity: "Warszawa"}
	withoutCity := match.RawRecord{ID: 2, Text: "Jan Kowalski", SourceCity: "Gdańsk"}
	sc.Prepare(&withCity)
	sc.Prepare(&withoutCity)

	matched := sc.Score(&withCity, entries)
	mismatched := sc.Score(&withoutCity, entries)
	require.Len(t, matched, 1)
	require.Len(t, mismatched, 1)
	assert.Greater(t, matched[0].CombinedScore, mismatched[0].CombinedScore)
}
