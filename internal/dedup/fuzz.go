package dedup

import (
	"math"
	"sort"
	"strings"
)

// Fuzzy ratio helpers in the fuzzywuzzy family, on a 0-100 integer
// scale. All operate on runes so multi-byte titles do not skew the
// lengths.

// fuzzRatio is the character-level similarity: the share of both
// strings covered by their longest common subsequence.
func fuzzRatio(left, right string) int {
	a := []rune(left)
	b := []rune(right)
	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := lcsLength(a, b)
	return int(math.Round(200 * float64(common) / float64(len(a)+len(b))))
}

// fuzzPartialRatio aligns the shorter string against every same-length
// window of the longer one and keeps the best ratio. Titles are short
// enough that the exhaustive scan stays cheap.
func fuzzPartialRatio(left, right string) int {
	a := []rune(left)
	b := []rune(right)
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return 0
	}
	if len(a) == len(b) {
		return fuzzRatio(string(a), string(b))
	}

	best := 0
	for offset := 0; offset+len(a) <= len(b); offset++ {
		score := fuzzRatio(string(a), string(b[offset:offset+len(a)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// fuzzTokenSortRatio compares the titles with their words sorted, so
// pure reorderings score 100.
func fuzzTokenSortRatio(left, right string) int {
	return fuzzRatio(sortedTokenJoin(left), sortedTokenJoin(right))
}

// fuzzTokenSetRatio compares the titles as word sets: the sorted
// intersection against each full sorted token string. Robust to
// reordering and to one title carrying extra words.
func fuzzTokenSetRatio(left, right string) int {
	leftTokens := toSet(strings.Fields(left))
	rightTokens := toSet(strings.Fields(right))
	if len(leftTokens) == 0 || len(rightTokens) == 0 {
		return 0
	}

	var intersection, leftRest, rightRest []string
	for token := range leftTokens {
		if _, ok := rightTokens[token]; ok {
			intersection = append(intersection, token)
		} else {
			leftRest = append(leftRest, token)
		}
	}
	for token := range rightTokens {
		if _, ok := leftTokens[token]; !ok {
			rightRest = append(rightRest, token)
		}
	}
	sort.Strings(intersection)
	sort.Strings(leftRest)
	sort.Strings(rightRest)

	base := strings.Join(intersection, " ")
	combinedLeft := strings.TrimSpace(base + " " + strings.Join(leftRest, " "))
	combinedRight := strings.TrimSpace(base + " " + strings.Join(rightRest, " "))

	best := fuzzRatio(base, combinedLeft)
	if score := fuzzRatio(base, combinedRight); score > best {
		best = score
	}
	if score := fuzzRatio(combinedLeft, combinedRight); score > best {
		best = score
	}
	return best
}

func sortedTokenJoin(text string) string {
	tokens := strings.Fields(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// lcsLength is the classic two-row dynamic program.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				curr[j+1] = prev[j] + 1
			} else if prev[j+1] >= curr[j] {
				curr[j+1] = prev[j+1]
			} else {
				curr[j+1] = curr[j]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
