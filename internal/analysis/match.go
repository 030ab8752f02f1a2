// Package analysis implements the pure scoring components of the comparison
// pipeline: title token matching, price summarization and verdict
// classification. Nothing in this package performs I/O or returns errors;
// malformed inputs degrade to empty token sets, skipped values, or the
// unknown verdict.
package analysis

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/lotcheck/pkg/ebay"
)

// Tokenize normalizes a free-text title into a deduplicated token set:
// NFKC fold, lower-case, every rune that is not a letter or digit mapped to
// a space, then split on whitespace. Empty input yields an empty set.
func Tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	if s == "" {
		return tokens
	}

	folded := strings.ToLower(norm.NFKC.String(s))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)

	for _, tok := range strings.Fields(cleaned) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// MatchTop ranks candidates by token overlap with the reference title and
// returns at most topN of them, best first. Ties keep the input order.
func MatchTop(refTitle string, candidates []ebay.ItemSummary, topN int) []ebay.ItemSummary {
	if topN <= 0 || len(candidates) == 0 {
		return nil
	}

	ref := Tokenize(refTitle)

	ranked := make([]ebay.ItemSummary, len(candidates))
	copy(ranked, candidates)

	scores := make([]int, len(ranked))
	for i, c := range ranked {
		scores[i] = overlap(ref, Tokenize(c.Title))
	}

	idx := make([]int, len(ranked))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if topN > len(idx) {
		topN = len(idx)
	}
	out := make([]ebay.ItemSummary, topN)
	for i := range topN {
		out[i] = ranked[idx[i]]
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}
