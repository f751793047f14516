package layout

import (
	"math"

	"github.com/archrip/archrip/pkg/dag"
)

// placeX assigns centre x coordinates. Each row starts packed and centred on
// zero; every pass then moves nodes toward the mean x of their neighbours in
// the previous (downward pass) or next (upward pass) row, subject to the
// minimum separation. A final pass balances against both rows. The result
// is shifted so the leftmost box edge sits at MarginX.
func placeX(g *dag.DAG, orders [][]string, sizes map[string]size, p Params) map[string]float64 {
	xs := make(map[string]float64, g.NodeCount())
	seps := make([][]float64, len(orders))

	for r, row := range orders {
		seps[r] = make([]float64, len(row))
		x := 0.0
		for i, id := range row {
			if i > 0 {
				seps[r][i] = separation(g, sizes, row[i-1], id, p)
				x += seps[r][i]
			}
			xs[id] = x
		}
		for _, id := range row {
			xs[id] -= x / 2
		}
	}

	align := func(r int, up, down bool) {
		row := orders[r]
		targets := make([]float64, len(row))
		for i, id := range row {
			targets[i] = neighbourMean(g, xs, id, up, down)
		}
		for i, x := range fitRow(targets, seps[r]) {
			xs[row[i]] = x
		}
	}

	for pass := 0; pass < p.PlacementPasses; pass++ {
		if pass%2 == 0 {
			for r := 1; r < len(orders); r++ {
				align(r, true, false)
			}
		} else {
			for r := len(orders) - 2; r >= 0; r-- {
				align(r, false, true)
			}
		}
	}
	for r := range orders {
		align(r, true, true)
	}

	minLeft := math.Inf(1)
	for id, s := range sizes {
		if x, ok := xs[id]; ok {
			minLeft = math.Min(minLeft, x-s.w/2)
		}
	}
	if !math.IsInf(minLeft, 1) {
		shift := p.MarginX - minLeft
		for id := range xs {
			xs[id] += shift
		}
	}
	return xs
}

// placeY assigns centre y coordinates. Each row is as tall as its tallest
// box and rows are RankSep apart; boxes are centred vertically in their row.
func placeY(orders [][]string, sizes map[string]size, p Params) map[string]float64 {
	ys := make(map[string]float64, len(sizes))
	top := p.MarginY
	for _, row := range orders {
		h := 0.0
		for _, id := range row {
			if s, ok := sizes[id]; ok {
				h = math.Max(h, s.h)
			}
		}
		for _, id := range row {
			ys[id] = top + h/2
		}
		top += h + p.RankSep
	}
	return ys
}

// separation is the minimum distance between the centres of two adjacent
// nodes. Subdividers have no width and use EdgeSep as their gap.
func separation(g *dag.DAG, sizes map[string]size, a, b string, p Params) float64 {
	da, db := isSubdivider(g, a), isSubdivider(g, b)
	gap := p.NodeSep
	switch {
	case da && db:
		gap = p.EdgeSep
	case da || db:
		gap = (p.NodeSep + p.EdgeSep) / 2
	}
	return sizes[a].w/2 + sizes[b].w/2 + gap
}

func isSubdivider(g *dag.DAG, id string) bool {
	n, ok := g.Node(id)
	return ok && n.IsSubdivider()
}

// neighbourMean returns the weighted mean x of id's parents (up) and/or
// children (down), or id's own x if it has none. Links between two
// subdividers weigh double so long edges straighten first.
func neighbourMean(g *dag.DAG, xs map[string]float64, id string, up, down bool) float64 {
	sum, weight := 0.0, 0.0
	add := func(nbrs []string) {
		for _, nb := range nbrs {
			w := 1.0
			if isSubdivider(g, id) && isSubdivider(g, nb) {
				w = 2
			}
			sum += w * xs[nb]
			weight += w
		}
	}
	if up {
		add(g.Parents(id))
	}
	if down {
		add(g.Children(id))
	}
	if weight == 0 {
		return xs[id]
	}
	return sum / weight
}

// fitRow returns the positions closest to targets, in the least-squares
// sense, such that x[i]-x[i-1] >= seps[i] for every i > 0.
//
// Subtracting the cumulative separation turns the constraints into
// "non-decreasing", which the pool-adjacent-violators algorithm solves
// exactly in linear time.
func fitRow(targets, seps []float64) []float64 {
	n := len(targets)
	offset := make([]float64, n)
	for i := 1; i < n; i++ {
		offset[i] = offset[i-1] + seps[i]
	}

	type block struct {
		sum   float64
		count int
	}
	mean := func(b block) float64 { return b.sum / float64(b.count) }

	blocks := make([]block, 0, n)
	for i := range targets {
		blocks = append(blocks, block{sum: targets[i] - offset[i], count: 1})
		for len(blocks) > 1 && mean(blocks[len(blocks)-2]) > mean(blocks[len(blocks)-1]) {
			last := blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
			blocks[len(blocks)-1].sum += last.sum
			blocks[len(blocks)-1].count += last.count
		}
	}

	out := make([]float64, 0, n)
	for _, b := range blocks {
		m := mean(b)
		for range b.count {
			out = append(out, m+offset[len(out)])
		}
	}
	return out
}
