// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine runs batch matching: it fans records out to a worker
// pool, isolates per-record failures, and produces a deterministic
// BatchResult in input order.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"name-resolve/internal/config"
	"name-resolve/internal/match"
	"name-resolve/internal/observability"
	"name-resolve/internal/scorer"
)

// Engine matches batches of raw records against the registry.
type Engine struct {
	cfg      *config.Config
	scorer   *scorer.Scorer
	observer *observability.StandardObserver
	workers  int
}

// BatchResult is the outcome of one batch run. Results preserve the
// input record order regardless of worker scheduling.
type BatchResult struct {
	BatchID          string               `json:"batch_id"`
	Results          []match.RecordResult `json:"results"`
	TotalRecords     int                  `json:"total_records"`
	MatchedRecords   int                  `json:"matched_records"`
	FailedRecords    int                  `json:"failed_records"`
	TotalSuggestions int                  `json:"total_suggestions"`
	Duration         time.Duration        `json:"duration_ns"`
}

// RecordsPerSecond returns the batch processing rate.
func (b *BatchResult) RecordsPerSecond() float64 {
	if b.Duration <= 0 {
		return 0
	}
	return float64(b.TotalRecords) / b.Duration.Seconds()
}

// New creates an engine. A worker count of zero in the config means one
// worker per CPU.
func New(cfg *config.Config, sc *scorer.Scorer, observer *observability.StandardObserver) *Engine {
	workers := cfg.Matcher.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		cfg:      cfg,
		scorer:   sc,
		observer: observer,
		workers:  workers,
	}
}

// MatchBatch processes all records against the given registry entries.
// A failure in one record never affects the others; cancellation is
// honored between records and surfaces as the context's error.
func (e *Engine) MatchBatch(ctx context.Context, records []match.RawRecord, entries []match.ReferenceEntry) (*BatchResult, error) {
	batchID := uuid.New().String()
	complete := e.observer.StartTiming("engine", "match_batch", batchID)

	results := make([]match.RecordResult, len(records))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if ctx.Err() != nil {
					return
				}
				results[i] = e.processRecord(batchID, records[i], entries)
			}
		}()
	}

	start := time.Now()
feed:
	for i := range records {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		complete(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	result := &BatchResult{
		BatchID:      batchID,
		Results:      results,
		TotalRecords: len(records),
		Duration:     time.Since(start),
	}
	for i := range results {
		switch results[i].Status {
		case match.StatusMatched:
			result.MatchedRecords++
		case match.StatusFailed:
			result.FailedRecords++
		}
		result.TotalSuggestions += len(results[i].Suggestions)
	}

	complete(true, map[string]interface{}{
		"total_records":     result.TotalRecords,
		"matched_records":   result.MatchedRecords,
		"failed_records":    result.FailedRecords,
		"total_suggestions": result.TotalSuggestions,
	})
	return result, nil
}

// processRecord handles one record. Panics from scoring are contained
// here so a malformed record cannot take down the batch.
func (e *Engine) processRecord(batchID string, rec match.RawRecord, entries []match.ReferenceEntry) (result match.RecordResult) {
	start := time.Now()

	if d := e.observer.DebugObserver; d != nil {
		finish := d.StartStep("engine", "match_record", fmt.Sprintf("record %d", rec.ID))
		defer func() {
			finish(result.Status != match.StatusFailed, string(result.Status))
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			result = match.RecordResult{
				Record: rec,
				Status: match.StatusFailed,
				Note:   fmt.Sprintf("matching panicked: %v", r),
			}
		}
		e.observer.LogOperation(observability.StandardObservabilityData{
			Component:       "engine",
			Operation:       "match_record",
			BatchID:         batchID,
			RecordID:        rec.ID,
			DurationMs:      time.Since(start).Milliseconds(),
			Success:         result.Status != match.StatusFailed,
			Error:           result.Note,
			SuggestionCount: len(result.Suggestions),
		})
	}()

	e.scorer.Prepare(&rec)
	rec.Processed = true

	if rec.NormalizedText == "" {
		return match.RecordResult{
			Record: rec,
			Status: match.StatusNoMatch,
			Note:   "empty text after normalization",
		}
	}
	if len(entries) == 0 {
		return match.RecordResult{
			Record: rec,
			Status: match.StatusNoCandidates,
			Note:   "no reference entries available",
		}
	}

	suggestions := e.scorer.Score(&rec, entries)
	if len(suggestions) == 0 {
		return match.RecordResult{
			Record: rec,
			Status: match.StatusNoMatch,
			Note:   "no candidate cleared the minimum full name score",
		}
	}
	return match.RecordResult{
		Record:      rec,
		Status:      match.StatusMatched,
		Suggestions: suggestions,
	}
}
