package dedup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonTokenChars matches everything except word characters, whitespace and
// the accented letters that appear in Portuguese transaction descriptions.
var nonTokenChars = regexp.MustCompile(`[^\wàáâãéêíóôõúüç\s]+`)

// stopWords are discarded during tokenization. Bank descriptions mix
// Portuguese and English, so both stop-word sets apply.
var stopWords = map[string]bool{
	"de": true, "da": true, "do": true, "para": true, "com": true,
	"em": true, "no": true, "na": true, "os": true, "as": true,
	"um": true, "uma": true,
	"the": true, "a": true, "an": true, "of": true, "to": true,
	"in": true, "for": true, "on": true, "at": true,
}

// ExtractDescriptionTokens tokenizes a transaction description for
// similarity comparison: lowercase, punctuation stripped, split on
// whitespace, with stop words and tokens of length 2 or less discarded.
func ExtractDescriptionTokens(description string) []string {
	cleaned := nonTokenChars.ReplaceAllString(strings.ToLower(description), "")

	var tokens []string
	for _, token := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(token) <= 2 || stopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens
}

// CalculateTokenSimilarity returns the Jaccard similarity between two token
// lists, treated as sets. Either list being empty yields 0.
func CalculateTokenSimilarity(tokens1, tokens2 []string) float64 {
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	set1 := make(map[string]bool, len(tokens1))
	for _, t := range tokens1 {
		set1[t] = true
	}

	set2 := make(map[string]bool, len(tokens2))
	for _, t := range tokens2 {
		set2[t] = true
	}

	intersection := 0
	for t := range set1 {
		if set2[t] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
