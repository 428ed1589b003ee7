// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package gazetteer provides the lookup tables used during person name
// extraction: known first names, institutional stop words, and the role
// and court marker tokens that identify bailiff office designations.
package gazetteer

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"name-resolve/internal/normalizer"
)

// Embedded baseline word lists
//
//go:embed data/first_names.txt
var firstNamesData []byte

//go:embed data/stop_words.txt
var stopWordsData []byte

// Role and court markers checked against raw text. A record is treated as
// institutional only when at least one token from each group is present.
var (
	roleMarkers  = []string{"komornik", "komornicz", "bailiff"}
	courtMarkers = []string{"sąd", "sad", "court"}
)

// Gazetteer holds folded word sets for O(1) membership checks.
type Gazetteer struct {
	firstNames map[string]bool
	stopWords  map[string]bool
}

// Options controls loading of extension word lists on top of the
// embedded baseline data.
type Options struct {
	FirstNamesFile string // optional YAML file with a first_names list
	StopWordsFile  string // optional YAML file with a stop_words list
}

// extensionFile is the schema of an optional YAML word list file.
type extensionFile struct {
	FirstNames []string `yaml:"first_names"`
	StopWords  []string `yaml:"stop_words"`
}

// Load builds a gazetteer from the embedded baseline lists plus any
// extension files named in opts. Missing option fields are ignored.
func Load(opts Options) (*Gazetteer, error) {
	g := &Gazetteer{
		firstNames: make(map[string]bool, 256),
		stopWords:  make(map[string]bool, 128),
	}

	if err := loadWordsIntoMap(firstNamesData, g.firstNames); err != nil {
		return nil, fmt.Errorf("failed to load first names: %w", err)
	}
	if err := loadWordsIntoMap(stopWordsData, g.stopWords); err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}

	if opts.FirstNamesFile != "" {
		ext, err := loadExtensionFile(opts.FirstNamesFile)
		if err != nil {
			return nil, err
		}
		addWords(g.firstNames, ext.FirstNames)
	}
	if opts.StopWordsFile != "" {
		ext, err := loadExtensionFile(opts.StopWordsFile)
		if err != nil {
			return nil, err
		}
		addWords(g.stopWords, ext.StopWords)
	}

	return g, nil
}

// New builds a gazetteer from explicit word lists. Intended for tests
// and embedders that manage their own data.
func New(firstNames, stopWords []string) *Gazetteer {
	g := &Gazetteer{
		firstNames: make(map[string]bool, len(firstNames)),
		stopWords:  make(map[string]bool, len(stopWords)),
	}
	addWords(g.firstNames, firstNames)
	addWords(g.stopWords, stopWords)
	return g
}

// IsFirstName reports whether word is a known first name. The check is
// case-insensitive and diacritic-tolerant, so "Łukasz" and "lukasz"
// both match.
func (g *Gazetteer) IsFirstName(word string) bool {
	return g.firstNames[normalizer.Fold(word)]
}

// IsStopWord reports whether word is an institutional stop word.
func (g *Gazetteer) IsStopWord(word string) bool {
	return g.stopWords[normalizer.Fold(word)]
}

// HasInstitutionalMarkers reports whether text contains both a bailiff
// role token and a court token, in either language.
func (g *Gazetteer) HasInstitutionalMarkers(text string) bool {
	folded := normalizer.Fold(text)
	return containsAny(folded, roleMarkers) && containsAny(folded, courtMarkers)
}

// FirstNameCount returns the number of loaded first names.
func (g *Gazetteer) FirstNameCount() int {
	return len(g.firstNames)
}

// StopWordCount returns the number of loaded stop words.
func (g *Gazetteer) StopWordCount() int {
	return len(g.stopWords)
}

func containsAny(folded string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(folded, normalizer.Fold(m)) {
			return true
		}
	}
	return false
}

// loadWordsIntoMap parses a word list file into a folded boolean map.
// Blank lines and lines starting with # are skipped.
func loadWordsIntoMap(data []byte, wordMap map[string]bool) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		wordMap[normalizer.Fold(word)] = true
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading word list: %w", err)
	}
	return nil
}

// loadExtensionFile reads a YAML extension word list from disk.
func loadExtensionFile(path string) (*extensionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list file %s: %w", path, err)
	}
	var ext extensionFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("failed to parse word list file %s: %w", path, err)
	}
	return &ext, nil
}

func addWords(wordMap map[string]bool, words []string) {
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		wordMap[normalizer.Fold(w)] = true
	}
}
