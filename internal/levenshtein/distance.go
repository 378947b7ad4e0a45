// Package levenshtein computes edit distances between domain names for
// fuzzy typo matching.
package levenshtein

// Distance computes the Levenshtein edit distance between two strings.
func Distance(s, t string) int {
	d, _ := bounded(s, t, -1)
	return d
}

// Within reports whether s and t are at most limit edits apart, and the
// distance when they are. It stops early once every cell of a row exceeds
// limit, which keeps scanning a provider list cheap.
func Within(s, t string, limit int) (int, bool) {
	if limit < 0 {
		return 0, false
	}
	return bounded(s, t, limit)
}

// bounded is the two-row dynamic programming core. A negative limit disables
// the early exit.
func bounded(s, t string, limit int) (int, bool) {
	sr, tr := []rune(s), []rune(t)
	if len(sr) > len(tr) {
		sr, tr = tr, sr
	}
	if limit >= 0 && len(tr)-len(sr) > limit {
		return 0, false
	}
	if len(sr) == 0 {
		return len(tr), true
	}

	prev := make([]int, len(sr)+1)
	curr := make([]int, len(sr)+1)
	for i := range prev {
		prev[i] = i
	}

	for j, tc := range tr {
		curr[0] = j + 1
		rowMin := curr[0]
		for i, sc := range sr {
			cost := 1
			if sc == tc {
				cost = 0
			}
			curr[i+1] = min(curr[i]+1, prev[i+1]+1, prev[i]+cost)
			rowMin = min(rowMin, curr[i+1])
		}
		if limit >= 0 && rowMin > limit {
			return 0, false
		}
		prev, curr = curr, prev
	}

	d := prev[len(sr)]
	if limit >= 0 && d > limit {
		return 0, false
	}
	return d, true
}
