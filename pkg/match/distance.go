/*
Package match scores one typed token against one candidate word.

The matcher runs a bounded dynamic-programming edit distance
(insert/delete/substitute) where substitution cost comes from a
pluggable keyboard-layout function. It is called against every
prefix-bucket candidate per keystroke boundary, so rows abort as soon
as the raw distance can no longer stay within the bound.
*/
package match

// Result holds both views of one comparison: the raw operation count
// and the keyboard-weighted cost it was achieved with.
type Result struct {
	Distance   int     // raw edit operations on the cheapest weighted path
	Weighted   float64 // proximity-weighted cost of that path
	Similarity float64 // 1 - Weighted/max(len(input), len(candidate))
}

// Matcher compares tokens within a fixed raw-distance bound.
type Matcher struct {
	cost  CostFunc
	bound int
}

// DefaultBound is the raw edit distance past which candidates stop
// being plausible corrections.
const DefaultBound = 2

// NewMatcher returns a matcher using the given substitution cost
// function and raw-distance bound. A nil cost function falls back to
// QWERTYCost, a non-positive bound to DefaultBound.
func NewMatcher(cost CostFunc, bound int) *Matcher {
	if cost == nil {
		cost = QWERTYCost
	}
	if bound <= 0 {
		bound = DefaultBound
	}
	return &Matcher{cost: cost, bound: bound}
}

// cell tracks the cheapest weighted path into a DP position and how
// many raw operations it took.
type cell struct {
	ops int
	w   float64
}

func (c cell) better(o cell) bool {
	if c.w != o.w {
		return c.w < o.w
	}
	return c.ops < o.ops
}

// Match compares input against candidate. The second return is false
// when the raw edit distance exceeds the bound; the Result is only
// meaningful when it is true.
func (m *Matcher) Match(input, candidate string) (Result, bool) {
	a := []rune(input)
	b := []rune(candidate)

	// Cheap reject: length difference alone already costs that many ops.
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > m.bound {
		return Result{}, false
	}

	prev := make([]cell, len(b)+1)
	curr := make([]cell, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = cell{ops: j, w: float64(j)}
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = cell{ops: i, w: float64(i)}
		rowMin := curr[0].ops

		for j := 1; j <= len(b); j++ {
			del := cell{ops: prev[j].ops + 1, w: prev[j].w + 1}
			ins := cell{ops: curr[j-1].ops + 1, w: curr[j-1].w + 1}
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub = cell{ops: sub.ops + 1, w: sub.w + m.cost(a[i-1], b[j-1])}
			}

			best := sub
			if del.better(best) {
				best = del
			}
			if ins.better(best) {
				best = ins
			}
			curr[j] = best
			if best.ops < rowMin {
				rowMin = best.ops
			}
		}

		// Every path through this row already spent more ops than the
		// bound allows; no suffix can recover.
		if rowMin > m.bound {
			return Result{}, false
		}
		prev, curr = curr, prev
	}

	final := prev[len(b)]
	if final.ops > m.bound {
		return Result{}, false
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	sim := 1.0
	if maxLen > 0 {
		sim = 1.0 - final.w/float64(maxLen)
	}
	if sim < 0 {
		sim = 0
	}
	return Result{Distance: final.ops, Weighted: final.w, Similarity: sim}, true
}

// Distance is the plain unbounded Levenshtein distance. The ranker
// uses it where a bound makes no sense, such as annotating contraction
// expansions.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
