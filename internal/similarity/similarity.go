// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package similarity implements the string comparison primitives used for
// candidate scoring. All scores live on a 0-100 scale where 100 means an
// exact match after normalization.
package similarity

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"
)

// Shared metric instance. Levenshtein from strutil is stateless after
// construction, so a single instance serves all comparisons.
var lev = metrics.NewLevenshtein()

// Ratio returns the Levenshtein similarity of a and b on a 0-100 scale.
// Two empty strings score 100; one empty string scores 0.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return clamp(strutil.Similarity(a, b, lev) * 100)
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares
// the rejoined forms. Word order differences such as "kowalski jan"
// versus "jan kowalski" score 100.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// PartialRatio slides the shorter string across the longer one and
// returns the best window similarity. A short query contained verbatim
// in a long institutional text scores 100.
func PartialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := longer[start : start+len(shorter)]
		dist := levenshtein.ComputeDistance(string(shorter), string(window))
		score := (1 - float64(dist)/float64(len(shorter))) * 100
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return clamp(best)
}

// PhoneticMatch reports whether a and b share a primary Double Metaphone
// code. The result annotates suggestions and never affects scores.
func PhoneticMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	primaryA, _ := matchr.DoubleMetaphone(a)
	primaryB, _ := matchr.DoubleMetaphone(b)
	return primaryA != "" && primaryA == primaryB
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
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
