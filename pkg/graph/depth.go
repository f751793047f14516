package graph

// ClampDepth maps any integer onto the three depth levels.
func ClampDepth(level int) int {
	switch {
	case level <= DepthOverview:
		return DepthOverview
	case level >= DepthDetail:
		return DepthDetail
	default:
		return DepthStandard
	}
}

// EffectiveDepths returns each node's depth bucket keyed by id.
//
// Nodes with an explicit depth keep it (clamped). Nodes without one are
// bucketed by where their layer falls in the document's layer span: the
// lowest third is overview, the middle third standard and the rest detail.
// A document whose nodes share a single layer puts every undeclared node at
// overview.
func EffectiveDepths(nodes []Node) map[string]int {
	out := make(map[string]int, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	lo, hi := nodes[0].LayerValue(), nodes[0].LayerValue()
	for i := range nodes {
		l := nodes[i].LayerValue()
		lo = min(lo, l)
		hi = max(hi, l)
	}
	span := hi - lo

	for i := range nodes {
		n := &nodes[i]
		if n.Depth != nil {
			out[n.ID] = ClampDepth(*n.Depth)
			continue
		}
		if span == 0 {
			out[n.ID] = DepthOverview
			continue
		}
		out[n.ID] = ClampDepth((n.LayerValue() - lo) * 3 / (span + 1))
	}
	return out
}
