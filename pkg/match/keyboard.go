package match

// CostFunc returns the cost of substituting rune a with rune b.
// Implementations model a physical key layout; anything not covered
// should fall back to unit cost.
type CostFunc func(a, b rune) float64

// qwertyRows describe the physical key grid. Row offsets follow the
// usual stagger: each key neighbors the two keys above/below it at the
// same and next column.
var qwertyRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

var qwertyNeighbors = buildNeighbors(qwertyRows)

func buildNeighbors(rows []string) map[rune]map[rune]bool {
	neighbors := make(map[rune]map[rune]bool)
	add := func(a, b rune) {
		if a == b {
			return
		}
		if neighbors[a] == nil {
			neighbors[a] = make(map[rune]bool)
		}
		if neighbors[b] == nil {
			neighbors[b] = make(map[rune]bool)
		}
		neighbors[a][b] = true
		neighbors[b][a] = true
	}

	for ri, row := range rows {
		keys := []rune(row)
		for ci, key := range keys {
			if ci+1 < len(keys) {
				add(key, keys[ci+1])
			}
			if ri+1 < len(rows) {
				below := []rune(rows[ri+1])
				for _, di := range []int{ci - 1, ci} {
					if di >= 0 && di < len(below) {
						add(key, below[di])
					}
				}
			}
		}
	}
	return neighbors
}

// QWERTYAdjacent reports whether two keys sit next to each other on a
// QWERTY board.
func QWERTYAdjacent(a, b rune) bool {
	return qwertyNeighbors[a][b]
}

// QWERTYCost is the default substitution cost: half price for slips
// onto a neighboring key, full price otherwise.
func QWERTYCost(a, b rune) float64 {
	if QWERTYAdjacent(a, b) {
		return 0.5
	}
	return 1.0
}

// UnitCost ignores the keyboard entirely. Useful as a baseline and for
// layouts without an adjacency table.
func UnitCost(a, b rune) float64 {
	return 1.0
}
