// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extractor pulls person names out of institutional bailiff
// designations. Raw office texts bury the office holder's name between
// role titles, court references and address fragments; the extractor
// anchors on known first names and extends the candidate sequence with
// adjacent surname-like tokens.
package extractor

import (
	"strings"
	"unicode"

	"name-resolve/internal/gazetteer"
)

// tokenTrimCutset strips punctuation that clings to tokens after a
// naive whitespace split.
const tokenTrimCutset = ".,()[]{}\";:"

// Extractor locates person names inside raw record text.
type Extractor struct {
	gaz *gazetteer.Gazetteer
}

// New returns an extractor backed by the given gazetteer.
func New(gaz *gazetteer.Gazetteer) *Extractor {
	return &Extractor{gaz: gaz}
}

// ExtractPersonName returns the (firstName, lastName) pair found in text.
//
// For institutional text (a bailiff role token plus a court token both
// present) it scans for a known first name and greedily extends the
// sequence with up to two following surname-like tokens, keeping the
// longest sequence of two or three tokens. For plain text it falls back
// to the first and last tokens. Both results may be empty; extraction
// never fails.
func (e *Extractor) ExtractPersonName(text string) (firstName, lastName string) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return "", ""
	}

	if !e.gaz.HasInstitutionalMarkers(text) {
		if len(tokens) >= 2 {
			return tokens[0], tokens[len(tokens)-1]
		}
		return "", ""
	}

	best := e.bestNameSequence(tokens)
	if len(best) == 0 {
		return "", ""
	}
	return best[0], strings.Join(best[1:], " ")
}

// bestNameSequence finds the longest first-name-anchored token run of
// length two or three.
func (e *Extractor) bestNameSequence(tokens []string) []string {
	var best []string
	for i, tok := range tokens {
		if !isCapitalized(tok) || !e.gaz.IsFirstName(tok) {
			continue
		}
		seq := []string{tok}
		for j := i + 1; j < len(tokens) && j < i+4; j++ {
			if !e.isSurnameLike(tokens[j]) {
				break
			}
			seq = append(seq, tokens[j])
		}
		if len(seq) >= 2 && len(seq) <= 3 && len(seq) > len(best) {
			best = seq
		}
	}
	return best
}

// isSurnameLike reports whether a token can extend a name sequence.
func (e *Extractor) isSurnameLike(tok string) bool {
	if len([]rune(tok)) <= 1 {
		return false
	}
	if !isCapitalized(tok) {
		return false
	}
	if isNumeric(tok) {
		return false
	}
	return !e.gaz.IsStopWord(tok)
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, tokenTrimCutset)
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isCapitalized(tok string) bool {
	for _, r := range tok {
		return unicode.IsUpper(r)
	}
	return false
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
