package layout

import (
	"cmp"
	"slices"

	"github.com/archrip/archrip/pkg/dag"
)

// stallLimit is the number of sweeps without improvement after which
// ordering stops.
const stallLimit = 4

// transposeRounds bounds the adjacent-swap passes after each sweep.
const transposeRounds = 8

// orderRows returns each row's node IDs left to right, choosing the
// ordering with the fewest crossings seen over alternating barycenter
// sweeps. Rows of g must be consecutive from 0.
func orderRows(g *dag.DAG, maxSweeps int) [][]string {
	rows := initialOrder(g)
	best := cloneRows(rows)
	bestCross := dag.CountCrossings(g, rows)

	for i, stall := 0, 0; i < maxSweeps && stall < stallLimit && bestCross > 0; i++ {
		if i%2 == 0 {
			sweepDown(g, rows)
		} else {
			sweepUp(g, rows)
		}
		transpose(g, rows)

		if c := dag.CountCrossings(g, rows); c < bestCross {
			bestCross, best, stall = c, cloneRows(rows), 0
		} else {
			stall++
		}
	}
	return best
}

// initialOrder seeds row orders with a depth-first walk from the top rows,
// so that children appear in the order their parents reach them.
func initialOrder(g *dag.DAG) [][]string {
	rows := make([][]string, g.MaxRow()+1)
	visited := make(map[string]bool, g.NodeCount())

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		n, _ := g.Node(id)
		rows[n.Row] = append(rows[n.Row], id)
		for _, c := range g.Children(id) {
			visit(c)
		}
	}

	for _, r := range g.RowIDs() {
		for _, n := range g.NodesInRow(r) {
			visit(n.ID)
		}
	}
	return rows
}

func sweepDown(g *dag.DAG, rows [][]string) {
	for r := 1; r < len(rows); r++ {
		reorderByBarycenter(rows[r], dag.PosMap(rows[r-1]), g.Parents)
	}
}

func sweepUp(g *dag.DAG, rows [][]string) {
	for r := len(rows) - 2; r >= 0; r-- {
		reorderByBarycenter(rows[r], dag.PosMap(rows[r+1]), g.Children)
	}
}

// reorderByBarycenter sorts row in place by the mean position of each
// node's neighbours in the adjacent row. Nodes with no such neighbours keep
// their slot; ties keep their current relative order.
func reorderByBarycenter(row []string, adjPos map[string]int, neighbors func(string) []string) {
	type entry struct {
		id  string
		bc  float64
		idx int
	}

	sortable := make([]entry, 0, len(row))
	fixed := make([]bool, len(row))
	for i, id := range row {
		sum, n := 0, 0
		for _, nb := range neighbors(id) {
			if pos, ok := adjPos[nb]; ok {
				sum += pos
				n++
			}
		}
		if n == 0 {
			fixed[i] = true
			continue
		}
		sortable = append(sortable, entry{id: id, bc: float64(sum) / float64(n), idx: i})
	}

	slices.SortFunc(sortable, func(a, b entry) int {
		if c := cmp.Compare(a.bc, b.bc); c != 0 {
			return c
		}
		return a.idx - b.idx
	})

	k := 0
	for i := range row {
		if fixed[i] {
			continue
		}
		row[i] = sortable[k].id
		k++
	}
}

// transpose swaps adjacent nodes while doing so strictly reduces the
// crossings with both neighbouring rows.
func transpose(g *dag.DAG, rows [][]string) {
	for round := 0; round < transposeRounds; round++ {
		improved := false
		for r, row := range rows {
			var above, below map[string]int
			if r > 0 {
				above = dag.PosMap(rows[r-1])
			}
			if r+1 < len(rows) {
				below = dag.PosMap(rows[r+1])
			}
			for i := 0; i+1 < len(row); i++ {
				l, rt := row[i], row[i+1]
				before := dag.CountPairCrossings(g, l, rt, above, true) + dag.CountPairCrossings(g, l, rt, below, false)
				after := dag.CountPairCrossings(g, rt, l, above, true) + dag.CountPairCrossings(g, rt, l, below, false)
				if after < before {
					row[i], row[i+1] = rt, l
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}
