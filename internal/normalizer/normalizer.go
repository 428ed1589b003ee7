// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package normalizer canonicalizes noisy multilingual name text so both
// sides of a comparison are reduced to the same alphabet and shape:
// lowercase, diacritic-free, boilerplate-stripped, single-spaced.
package normalizer

import (
	"regexp"
	"strings"
)

var (
	// Punctuation is replaced with a space so removal never merges
	// adjacent words. Hyphens stay: they are structural inside surnames.
	punctPattern = regexp.MustCompile("[.,;:()\"'`]")
	spacePattern = regexp.MustCompile(`\s+`)

	// Institutional phrases, legal formulas and academic titles removed
	// during normalization. Ordered longest-first so compound phrases are
	// consumed before their sub-phrases.
	titlePatterns = compileAll(
		`komornik\s+sądowy`,
		`przy\s+sądzie\s+rejonowym`,
		`zastępca\s+komornika`,
		`kancelaria\s+komornicza`,
		`komornik`,
		`sądowy`,
		`radca\s+prawny`,
		`adwokat`,
		`bailiff\s+at(\s+the)?`,
		`\bbailiff\b`,
		`district\s+court(\s+in)?`,
		`prof\s+dr\s+hab`,
		`dr\s+hab`,
		`\bmgr\b`,
		`\bdr\b`,
		`\bprof\b`,
		`\bmsc\b`,
	)

	// Office numbers, e.g. "nr 5", "Kancelaria ... Nr. 12a", "Office No 5",
	// "Office No IV". Punctuation cleanup runs first, so no dots here.
	officeNumberPatterns = compileAll(
		`\bnr\s*\d+\w*\b`,
		`\boffice\s+no\s+(?:\d+\w*|[ivxlcdm]+)\b`,
	)

	// Court abbreviations, keyed by folded token so accented spellings
	// ("ŚR", "Só") expand on the first pass. Expansion runs before
	// diacritic stripping because the replacement text itself carries
	// diacritics.
	courtAbbreviations = map[string]string{
		"sr": "sąd rejonowy",
		"so": "sąd okręgowy",
		"sa": "sąd apelacyjny",
	}
)

// transliterations maps each accented character to its unaccented Latin
// equivalent. An explicit, exhaustive table (not Unicode decomposition)
// guarantees deterministic, locale-independent output. Polish diacritics
// first, then the common Western European set.
var transliterations = map[rune]string{
	'ą': "a", 'ć': "c", 'ę': "e", 'ł': "l", 'ń': "n", 'ó': "o", 'ś': "s", 'ź': "z", 'ż': "z",
	'Ą': "A", 'Ć': "C", 'Ę': "E", 'Ł': "L", 'Ń': "N", 'Ó': "O", 'Ś': "S", 'Ź': "Z", 'Ż': "Z",

	'á': "a", 'à': "a", 'ä': "a", 'â': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ë': "e", 'ê': "e",
	'í': "i", 'ì': "i", 'ï': "i", 'î': "i",
	'ò': "o", 'ö': "o", 'ô': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'ü': "u", 'û': "u",
	'ñ': "n", 'ç': "c", 'ý': "y", 'ÿ': "y", 'ß': "ss",
	'Á': "A", 'À': "A", 'Ä': "A", 'Â': "A", 'Ã': "A", 'Å': "A",
	'É': "E", 'È': "E", 'Ë': "E", 'Ê': "E",
	'Í': "I", 'Ì': "I", 'Ï': "I", 'Î': "I",
	'Ò': "O", 'Ö': "O", 'Ô': "O", 'Õ': "O",
	'Ú': "U", 'Ù': "U", 'Ü': "U", 'Û': "U",
	'Ñ': "N", 'Ç': "C", 'Ý': "Y", 'Ÿ': "Y",
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile("(?i)"+p))
	}
	return compiled
}

// Normalize runs the full canonicalization pipeline. It is a total
// function: empty input yields an empty string, and the output is already
// canonical, so Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	result := clean(text)
	result = removeTitles(result)
	result = expandCourtAbbreviations(result)
	result = transliterate(result)
	result = strings.ToLower(result)
	return clean(result)
}

// clean collapses whitespace and replaces punctuation with spaces.
func clean(text string) string {
	cleaned := punctPattern.ReplaceAllString(text, " ")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// removeTitles strips institutional phrases, titles and office numbers.
// Every removal substitutes a single space so neighbors never merge.
func removeTitles(text string) string {
	result := text
	for _, pattern := range titlePatterns {
		result = pattern.ReplaceAllString(result, " ")
	}
	for _, pattern := range officeNumberPatterns {
		result = pattern.ReplaceAllString(result, " ")
	}
	return result
}

// expandCourtAbbreviations replaces recognized court abbreviation tokens
// with their full names. Punctuation cleanup has already run, so tokens
// are space separated.
func expandCourtAbbreviations(text string) string {
	tokens := strings.Fields(text)
	changed := false
	for i, token := range tokens {
		if expansion, ok := courtAbbreviations[Fold(token)]; ok {
			tokens[i] = expansion
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(tokens, " ")
}

// transliterate maps accented characters through the explicit table.
// Characters without an entry pass through unchanged.
func transliterate(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if replacement, ok := transliterations[r]; ok {
			b.WriteString(replacement)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold lowercases text and strips diacritics through the explicit table,
// without the boilerplate-removal stages. Used for dictionary lookups and
// field-level comparisons where both sides are already bare names.
func Fold(text string) string {
	return strings.ToLower(transliterate(text))
}

// ExtractNameParts splits normalized text into a best-effort
// (firstName, lastName) pair. A lone token is assumed to be a surname;
// with three or more tokens the middle ones are discarded, which can lose
// genuine middle names.
func ExtractNameParts(normalized string) (firstName, lastName string) {
	tokens := strings.Fields(normalized)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return "", tokens[0]
	case 2:
		return tokens[0], tokens[1]
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}
