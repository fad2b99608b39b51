package intent

// similarity scores two normalized strings with the gestalt
// pattern-matching ratio: twice the total matched characters over the
// combined length. 1.0 means identical, 0.0 means nothing in common.
// The 0.38 resolution floor is calibrated against this ratio.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 0
	}
	return 2 * float64(matchedTotal(ra, rb)) / float64(len(ra)+len(rb))
}

// matchedTotal sums the sizes of the matching blocks: take the longest
// common block, then recurse into the unmatched spans on either side
// of it.
func matchedTotal(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	stack := []span{{0, len(a), 0, len(b)}}
	total := 0
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ai, bi, size := longestBlock(a, s.alo, s.ahi, s.blo, s.bhi, b2j)
		if size == 0 {
			continue
		}
		total += size
		stack = append(stack,
			span{s.alo, ai, s.blo, bi},
			span{ai + size, s.ahi, bi + size, s.bhi})
	}
	return total
}

// longestBlock finds the longest run of characters common to a[alo:ahi]
// and b[blo:bhi], preferring the earliest occurrence in a, then in b.
// b2j indexes every rune of b to its positions.
func longestBlock(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	runs := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := runs[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		runs = next
	}
	return besti, bestj, bestsize
}
