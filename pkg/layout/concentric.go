package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/archrip/archrip/pkg/graph"
)

// RingKey orders nodes into rings: category priority first, then layer,
// with a higher layer sitting closer to the centre.
func RingKey(category string, layer int) int {
	return graph.CategoryPriority(category)*1000 - layer
}

// Concentric places nodes on rings around the origin.
//
// Nodes sharing a [RingKey] share a ring, and rings are numbered from the
// centre outward in ascending key order. A ring 0 with a single member puts
// that node's centre exactly at the origin. Every other ring is ordered by
// the circular mean angle of each node's neighbours on inner rings; nodes
// with no placed neighbour follow in input order. Members are spread at
// equal angles starting from the top (-90°), increasing clockwise in screen
// coordinates.
//
// A ring's radius is the largest of the radius its members need to keep
// their minimum arc, the index floor max(r*RingSpacing, RingSpacing/2), and
// the previous ring's radius plus RingSpacing/2, so radii strictly increase.
func Concentric(nodes []Node, edges []Edge, p Params) map[string]Box {
	out := make(map[string]Box, len(nodes))
	if len(nodes) == 0 {
		return out
	}
	p = p.WithDefaults()

	rings := groupRings(nodes)
	adj := adjacency(nodes, edges)
	angles := make(map[string]float64, len(nodes))
	prevRadius := 0.0

	for r, ring := range rings {
		if r == 0 && len(ring) == 1 {
			n := ring[0]
			w, h := p.Size(n)
			angles[n.ID] = 0
			out[n.ID] = Box{ID: n.ID, X: -w / 2, Y: -h / 2, Width: w, Height: h}
			continue
		}

		ordered := orderRing(ring, adj, angles)
		radius := ringRadius(r, ordered, prevRadius, p)
		prevRadius = radius

		step := 2 * math.Pi / float64(len(ordered))
		for i, n := range ordered {
			angle := float64(i)*step - math.Pi/2
			angles[n.ID] = angle
			w, h := p.Size(n)
			cx, cy := radius*math.Cos(angle), radius*math.Sin(angle)
			out[n.ID] = Box{ID: n.ID, X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
		}
	}
	return out
}

// groupRings buckets nodes by ring key, innermost first. Duplicate IDs after
// the first are dropped.
func groupRings(nodes []Node) [][]Node {
	byKey := make(map[int][]Node)
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		k := RingKey(n.Category, n.Layer)
		byKey[k] = append(byKey[k], n)
	}

	keys := make([]int, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rings := make([][]Node, len(keys))
	for i, k := range keys {
		rings[i] = byKey[k]
	}
	return rings
}

// adjacency returns undirected neighbour lists in edge order. Self-loops and
// edges to unknown nodes are skipped.
func adjacency(nodes []Node, edges []Edge) map[string][]string {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	adj := make(map[string][]string, len(nodes))
	add := func(a, b string) {
		if !slices.Contains(adj[a], b) {
			adj[a] = append(adj[a], b)
		}
	}
	for _, e := range edges {
		if e.Source == e.Target || !known[e.Source] || !known[e.Target] {
			continue
		}
		add(e.Source, e.Target)
		add(e.Target, e.Source)
	}
	return adj
}

// orderRing sorts nodes with placed neighbours by the circular mean of
// those neighbours' angles and appends the rest in input order.
func orderRing(ring []Node, adj map[string][]string, placed map[string]float64) []Node {
	type targeted struct {
		node  Node
		angle float64
	}

	var with []targeted
	var without []Node
	for _, n := range ring {
		var sum struct{ sin, cos float64 }
		count := 0
		for _, nb := range adj[n.ID] {
			if a, ok := placed[nb]; ok {
				sum.sin += math.Sin(a)
				sum.cos += math.Cos(a)
				count++
			}
		}
		if count == 0 {
			without = append(without, n)
			continue
		}
		c := float64(count)
		with = append(with, targeted{node: n, angle: math.Atan2(sum.sin/c, sum.cos/c)})
	}

	slices.SortStableFunc(with, func(a, b targeted) int { return cmp.Compare(a.angle, b.angle) })

	out := make([]Node, 0, len(ring))
	for _, t := range with {
		out = append(out, t.node)
	}
	return append(out, without...)
}

// ringRadius computes the radius of ring r. Each member claims an arc of
// at least MinArc, or its width plus half the node gap if larger, which
// makes group boxes claim more room than regular ones.
func ringRadius(r int, ring []Node, prev float64, p Params) float64 {
	arc := 0.0
	for _, n := range ring {
		w, _ := p.Size(n)
		arc += math.Max(p.MinArc, w+p.NodeSep/2)
	}
	minForArc := arc / (2 * math.Pi)
	base := math.Max(float64(r)*p.RingSpacing, p.RingSpacing/2)
	return math.Max(minForArc, math.Max(base, prev+p.RingSpacing/2))
}
