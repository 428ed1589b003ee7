// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package registry holds the canonical reference entries that records
// are matched against. The store recomputes all normalized fields on
// every write so scoring never sees stale derived data.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"name-resolve/internal/match"
	"name-resolve/internal/normalizer"
)

// Store is an in-memory reference entry store safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*match.ReferenceEntry
}

// New returns an empty store.
func New() *Store {
	return &Store{
		nextID: 1,
		byID:   make(map[int64]*match.ReferenceEntry),
	}
}

// Add inserts a new entry, assigns its ID, and derives the normalized
// fields. The last name is required; everything else is optional.
func (s *Store) Add(entry match.ReferenceEntry) (match.ReferenceEntry, error) {
	if strings.TrimSpace(entry.LastName) == "" {
		return match.ReferenceEntry{}, fmt.Errorf("reference entry requires a last name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextID
	s.nextID++
	normalize(&entry)
	s.byID[entry.ID] = &entry
	return entry, nil
}

// Update replaces the entry with the given ID and rederives its
// normalized fields.
func (s *Store) Update(entry match.ReferenceEntry) (match.ReferenceEntry, error) {
	if strings.TrimSpace(entry.LastName) == "" {
		return match.ReferenceEntry{}, fmt.Errorf("reference entry requires a last name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[entry.ID]; !ok {
		return match.ReferenceEntry{}, fmt.Errorf("reference entry %d not found", entry.ID)
	}
	normalize(&entry)
	s.byID[entry.ID] = &entry
	return entry, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(id int64) (match.ReferenceEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byID[id]
	if !ok {
		return match.ReferenceEntry{}, false
	}
	return *entry, true
}

// Delete removes the entry with the given ID.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

// Entries returns a copy of all entries ordered by ID.
func (s *Store) Entries() []match.ReferenceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]match.ReferenceEntry, 0, len(s.byID))
	for _, entry := range s.byID {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// normalize rederives every normalized field from the source fields.
// The full name uses "first last" order to mirror how names appear in
// free text.
func normalize(entry *match.ReferenceEntry) {
	entry.NormalizedLastName = normalizer.Normalize(entry.LastName)
	entry.NormalizedFirstName = normalizer.Normalize(entry.FirstName)
	entry.NormalizedCity = normalizer.Normalize(entry.City)
	entry.NormalizedFullName = normalizer.Normalize(
		strings.TrimSpace(entry.FirstName + " " + entry.LastName))
}
