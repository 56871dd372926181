package game

// Outcome is the result of resolving a played card against the table.
type Outcome struct {
	Captured  []Card // table cards taken, excluding the played card itself
	Remaining []Card // the table after resolution
	Broom     bool   // the capture emptied the table and the deck allowed a broom
}

// ResolveCapture applies the capture rules to a played card and reports
// whether a capture happened. It never mutates the table it is given, so
// identical inputs always produce identical outcomes.
//
// Resolution order:
//  1. Ace rule: an ace played onto a non-empty table with no ace face-up
//     takes everything.
//  2. Combinatorial rule: the first subset, largest size first and scan
//     order within a size, whose rank sum equals the played rank or whose
//     rank sum plus the played rank equals 15.
//  3. Otherwise the card is laid on the table.
func ResolveCapture(table []Card, played Card, canBroom bool) (Outcome, bool) {
	aceOnTable := false
	for _, c := range table {
		if c.Rank == 1 {
			aceOnTable = true
			break
		}
	}

	if !aceOnTable && played.Rank == 1 && len(table) > 0 {
		captured := make([]Card, len(table))
		copy(captured, table)
		return Outcome{
			Captured:  captured,
			Remaining: []Card{},
			Broom:     canBroom,
		}, true
	}

	if idx := findCapture(table, played.Rank); idx != nil {
		captured := make([]Card, 0, len(idx))
		remaining := make([]Card, 0, len(table)-len(idx))
		take := make(map[int]bool, len(idx))
		for _, i := range idx {
			take[i] = true
		}
		for i, c := range table {
			if take[i] {
				captured = append(captured, c)
			} else {
				remaining = append(remaining, c)
			}
		}
		return Outcome{
			Captured:  captured,
			Remaining: remaining,
			Broom:     canBroom && len(remaining) == 0,
		}, true
	}

	remaining := make([]Card, 0, len(table)+1)
	remaining = append(remaining, table...)
	remaining = append(remaining, played)
	return Outcome{Remaining: remaining}, false
}

// findCapture searches subsets of table positions, preferring larger
// subsets, for one whose rank sum equals the played rank or complements it
// to 15. Within one size, combinations are enumerated in table scan order
// and the first match wins. The table is bounded by the deck, so the
// exhaustive search stays cheap and fully deterministic.
func findCapture(table []Card, playedRank int) []int {
	n := len(table)
	for k := n; k >= 1; k-- {
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			sum := 0
			for _, i := range idx {
				sum += table[i].Rank
			}
			if sum == playedRank || sum+playedRank == 15 {
				return idx
			}

			// advance to the next combination of k positions
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
	return nil
}
