// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-resolve/internal/config"
	"name-resolve/internal/extractor"
	"name-resolve/internal/gazetteer"
	"name-resolve/internal/match"
	"name-resolve/internal/observability"
	"name-resolve/internal/registry"
	"name-resolve/internal/scorer"
)

func newTestEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Matcher.Workers = workers

	gaz, err := gazetteer.Load(gazetteer.Options{})
	require.NoError(t, err)

	sc := scorer.New(cfg.Matcher, extractor.New(gaz))
	observer := observability.NewStandardObserver(observability.ObservabilityOff, io.Discard)
	return New(cfg, sc, observer)
}

func testEntries(t *testing.T) []match.ReferenceEntry {
	t.Helper()
	store := registry.New()
	for _, e := range []match.ReferenceEntry{
		{LastName: "Kowalski", FirstName: "Jan", City: "Łódź"},
		{LastName: "Nowak", FirstName: "Anna", City: "Warszawa"},
		{LastName: "Wiśniewski", FirstName: "Piotr", City: "Gdańsk"},
	} {
		_, err := store.Add(e)
		require.NoError(t, err)
	}
	return store.Entries()
}

func TestMatchBatch(t *testing.T) {
	eng := newTestEngine(t, 4)
	records := []match.RawRecord{
		{ID: 1, Text: "Komornik Sądowy przy Sądzie Rejonowym w Łodzi Jan Kowalski", SourceCity: "Łódź"},
		{ID: 2, Text: "Anna Nowak", SourceCity: "Warszawa"},
		{ID: 3, Text: "Zzzzz Qqqqq"},
	}

	result, err := eng.MatchBatch(context.Background(), records, testEntries(t))
	require.NoError(t, err)
	require.Len(t, result.Results, 3)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 3, result.TotalRecords)
	assert.Equal(t, 2, result.MatchedRecords)
	assert.Equal(t, 0, result.FailedRecords)

	// Results stay in input order regardless of worker scheduling
	for i, rec := range records {
		assert.Equal(t, rec.ID, result.Results[i].Record.ID)
		assert.True(t, result.Results[i].Record.Processed)
	}

	first := result.Results[0]
	assert.Equal(t, match.StatusMatched, first.Status)
	require.NotNil(t, first.Best())
	assert.Equal(t, "Kowalski Jan", first.Best().MatchedName)
	assert.Equal(t, match.ConfidenceHigh, first.Best().Confidence)

	third := result.Results[2]
	assert.Equal(t, match.StatusNoMatch, third.Status)
	assert.Empty(t, third.Suggestions)
	assert.Nil(t, third.Best())
}

func TestMatchBatchEmptyRegistry(t *testing.T) {
	eng := newTestEngine(t, 2)
	records := []match.RawRecord{
		{ID: 1, Text: "Jan Kowalski"},
		{ID: 2, Text: "Anna Nowak"},
	}

	result, err := eng.MatchBatch(context.Background(), records, nil)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	for _, res := range result.Results {
		assert.Equal(t, match.StatusNoCandidates, res.Status)
		assert.Equal(t, "no reference entries available", res.Note)
		assert.Empty(t, res.Suggestions)
		// Derived fields are still populated for later review
		assert.NotEmpty(t, res.Record.NormalizedText)
	}
	assert.Equal(t, 0, result.MatchedRecords)
}

func TestMatchBatchEmptyTextRecord(t *testing.T) {
	eng := newTestEngine(t, 1)
	records := []match.RawRecord{{ID: 1, Text: "   "}}

	result, err := eng.MatchBatch(context.Background(), records, testEntries(t))
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	res := result.Results[0]
	assert.Equal(t, match.StatusNoMatch, res.Status)
	assert.Equal(t, "empty text after normalization", res.Note)
	assert.True(t, res.Record.Processed)
}

func TestMatchBatchEmptyInput(t *testing.T) {
	eng := newTestEngine(t, 2)

	result, err := eng.MatchBatch(context.Background(), nil, testEntries(t))
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.TotalRecords)
	assert.Equal(t, 0, result.TotalSuggestions)
}

func TestMatchBatchDeterministic(t *testing.T) {
	eng := newTestEngine(t, 8)
	entries := testEntries(t)

	var records []match.RawRecord
	texts := []string{
		"Jan Kowalski", "Anna Nowak", "Piotr Wiśniewski",
		"Komornik Sądowy przy Sądzie Rejonowym w Łodzi Jan Kowalski",
		"Nowak Anna Warszawa", "unmatchable gibberish zzz",
	}
	for i, text := range texts {
		records = append(records, match.RawRecord{ID: int64(i + 1), Text: text})
	}

	first, err := eng.MatchBatch(context.Background(), records, entries)
	require.NoError(t, err)
	second, err := eng.MatchBatch(context.Background(), records, entries)
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.TotalSuggestions, second.TotalSuggestions)
}

func TestMatchBatchCancelled(t *testing.T) {
	eng := newTestEngine(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []match.RawRecord{
		{ID: 1, Text: "Jan Kowalski"},
		{ID: 2, Text: "Anna Nowak"},
	}

	_, err := eng.MatchBatch(ctx, records, testEntries(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchBatchFaultIsolation(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Matcher.Workers = 2

	// A scorer without an extractor panics during preparation; the batch
	// must still complete with per-record failure statuses.
	broken := scorer.New(cfg.Matcher, nil)
	observer := observability.NewStandardObserver(observability.ObservabilityOff, io.Discard)
	eng := New(cfg, broken, observer)

	records := []match.RawRecord{
		{ID: 1, Text: "Jan Kowalski"},
		{ID: 2, Text: "Anna Nowak"},
	}

	result, err := eng.MatchBatch(context.Background(), records, testEntries(t))
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	for _, res := range result.Results {
		assert.Equal(t, match.StatusFailed, res.Status)
		assert.Contains(t, res.Note, "matching panicked")
	}
	assert.Equal(t, 2, result.FailedRecords)
	assert.Equal(t, 0, result.MatchedRecords)
}

func TestMatchBatchSharedDebugObserver(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Matcher.Workers = 8

	gaz, err := gazetteer.Load(gazetteer.Options{})
	require.NoError(t, err)
	sc := scorer.New(cfg.Matcher, extractor.New(gaz))

	// All eight workers log through the same debug observer.
	dbg := observability.NewDebugObserver(&bytes.Buffer{})
	dbg.StandardObserver.DebugObserver = dbg
	eng := New(cfg, sc, dbg.StandardObserver)

	var records []match.RawRecord
	for i := 0; i < 64; i++ {
		records = append(records, match.RawRecord{ID: int64(i + 1), Text: "Jan Kowalski"})
	}

	result, err := eng.MatchBatch(context.Background(), records, testEntries(t))
	require.NoError(t, err)
	require.Len(t, result.Results, 64)
	assert.Equal(t, 64, result.MatchedRecords)
}

func TestMatchBatchSuggestionCounts(t *testing.T) {
	eng := newTestEngine(t, 2)
	entries := testEntries(t)

	records := []match.RawRecord{{ID: 1, Text: "Jan Kowalski"}}
	result, err := eng.MatchBatch(context.Background(), records, entries)
	require.NoError(t, err)

	total := 0
	for _, res := range result.Results {
		total += len(res.Suggestions)
	}
	assert.Equal(t, total, result.TotalSuggestions)
}
