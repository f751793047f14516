package dag

import "slices"

// CountCrossings sums [CountLayerCrossings] over every pair of consecutive
// rows. rows[i] is the left-to-right order of row i.
func CountCrossings(g *DAG, rows [][]string) int {
	crossings := 0
	for r := 0; r+1 < len(rows); r++ {
		crossings += CountLayerCrossings(g, rows[r], rows[r+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between an upper and a lower row.
//
// Edges (u1,v1) and (u2,v2) cross when pos(u1) < pos(u2) and pos(v1) > pos(v2),
// so the count equals the number of inversions in the target positions once
// edges are sorted by source position. A Fenwick tree makes that
// O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, child := range g.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// CountPairCrossings counts the crossings contributed by two nodes of the
// same row when left sits immediately before right. Neighbours are taken
// from the row above when useParents is set, otherwise from the row below;
// adjPos gives their positions. Comparing the result with the swapped call
// tells whether exchanging the pair helps.
func CountPairCrossings(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	var lnbr, rnbr []string
	if useParents {
		lnbr = g.Parents(left)
		rnbr = g.Parents(right)
	} else {
		lnbr = g.Children(left)
		rnbr = g.Children(right)
	}

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
