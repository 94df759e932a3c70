package diag

import (
	"strings"
	"unicode/utf8"
)

// FindClosest returns the candidate most similar to target, or an empty
// string if no candidate scores at least threshold (0..1, 1 = identical).
// Used for "Did you mean …?" suggestions on undefined module references.
func FindClosest(target string, candidates []string, threshold float64) string {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := similarity(target, c)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore >= threshold {
		return best
	}
	return ""
}

// similarity normalizes the edit distance into a 0..1 score.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(maxLen)
}

// editDistance is the optimal string alignment distance over runes:
// insertions, deletions, substitutions, and swaps of adjacent runes each
// count as one edit. Charging a swap one edit instead of two suits typo
// detection, where transposed letters are the common mistake.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return len(ra) + len(rb)
	}

	// Three rows of the alignment table, rotated as each row of ra
	// completes. The oldest row exists only for the swap lookup, which
	// reaches back two rows.
	width := len(rb) + 1
	var rows [3][]int
	for i := range rows {
		rows[i] = make([]int, width)
	}
	for j := range rows[1] {
		rows[1][j] = j
	}

	for i, ca := range ra {
		above, cur := rows[1], rows[2]
		cur[0] = i + 1
		for j, cb := range rb {
			d := above[j] // substitute, or free on a match
			if ca != cb {
				d++
			}
			if ins := cur[j] + 1; ins < d {
				d = ins
			}
			if del := above[j+1] + 1; del < d {
				d = del
			}
			if i > 0 && j > 0 && ca == rb[j-1] && ra[i-1] == cb {
				if swap := rows[0][j-1] + 1; swap < d {
					d = swap
				}
			}
			cur[j+1] = d
		}
		rows[0], rows[1], rows[2] = rows[1], rows[2], rows[0]
	}
	return rows[1][width-1]
}
