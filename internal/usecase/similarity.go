package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// TokenSetRatio computes a normalized similarity between two strings on a
// 0-100 scale. The comparison is token-set based: case and whitespace are
// ignored, word order does not matter, and a query whose tokens are a subset
// of the candidate's tokens scores 100. This matters for food names, where
// "chicken curry" must match "chicken curry with rice".
//
// The score is the best Levenshtein ratio among the sorted token
// intersection and the two intersection+remainder combinations.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection, restA, restB := splitTokenSets(tokensA, tokensB)

	base := strings.Join(intersection, " ")
	combinedA := joinSections(base, strings.Join(restA, " "))
	combinedB := joinSections(base, strings.Join(restB, " "))

	score := levenshteinRatio(base, combinedA)
	if r := levenshteinRatio(base, combinedB); r > score {
		score = r
	}
	if r := levenshteinRatio(combinedA, combinedB); r > score {
		score = r
	}
	return score
}

// tokenSet splits a string into unique, sorted lowercase tokens.
// Punctuation is treated as whitespace.
func tokenSet(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	seen := make(map[string]bool, len(words))
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if seen[word] {
			continue
		}
		seen[word] = true
		tokens = append(tokens, word)
	}

	sort.Strings(tokens)
	return tokens
}

// splitTokenSets partitions two sorted token sets into the shared tokens and
// each side's remainder, all kept in sorted order
func splitTokenSets(tokensA, tokensB []string) (intersection, restA, restB []string) {
	inB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		inB[t] = true
	}

	inBoth := make(map[string]bool)
	for _, t := range tokensA {
		if inB[t] {
			intersection = append(intersection, t)
			inBoth[t] = true
		} else {
			restA = append(restA, t)
		}
	}
	for _, t := range tokensB {
		if !inBoth[t] {
			restB = append(restB, t)
		}
	}
	return intersection, restA, restB
}

// joinSections concatenates the intersection and a remainder, skipping
// empty sections so no stray separator skews the ratio
func joinSections(base, rest string) string {
	switch {
	case base == "":
		return rest
	case rest == "":
		return base
	default:
		return base + " " + rest
	}
}

// levenshteinRatio converts edit distance into a 0-100 similarity
func levenshteinRatio(s1, s2 string) float64 {
	if s1 == s2 {
		return 100
	}

	longer := len([]rune(s1))
	if l := len([]rune(s2)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 100
	}

	distance := levenshteinDistance(s1, s2)
	return (1 - float64(distance)/float64(longer)) * 100
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
