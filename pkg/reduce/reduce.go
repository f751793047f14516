package reduce

import (
	"fmt"
	"strings"

	"github.com/archrip/archrip/pkg/graph"
)

// Result is a reduced graph ready for layout.
type Result struct {
	Level int
	Nodes []graph.ViewNode
	Edges []graph.Edge

	// GroupOf maps every merged node ID to the ID of its group.
	GroupOf map[string]string
}

// Groups returns the group nodes in r, in output order.
func (r *Result) Groups() []graph.ViewNode {
	var out []graph.ViewNode
	for _, n := range r.Nodes {
		if n.IsGroup {
			out = append(out, n)
		}
	}
	return out
}

// Reduce collapses nodes deeper than level into one group node per category.
//
// Each node's depth comes from [graph.EffectiveDepths]. Nodes at or above the
// threshold are kept. The rest are bucketed by category: a bucket with a
// single member is kept as is, larger buckets become one group node. Kept
// nodes appear in input order, followed by the groups in the order their
// categories were first seen.
//
// Edges are rewritten through the member-to-group mapping. Edges that become
// self-loops or reference a node missing from the result are dropped, and
// of several edges with the same endpoints only the first survives.
//
// Level is clamped to the valid depth range; [graph.DepthDetail] returns
// every node and edge unchanged.
func Reduce(nodes []graph.Node, edges []graph.Edge, level int) *Result {
	return reduce(nodes, edges, level, "")
}

// ReduceDocument is [Reduce] over a document's nodes and edges. Member
// summaries get source links resolved against the project's sourceUrl
// template.
func ReduceDocument(doc *graph.Document, level int) *Result {
	return reduce(doc.Nodes, doc.Edges, level, doc.Project.SourceURL)
}

func reduce(nodes []graph.Node, edges []graph.Edge, level int, sourceTemplate string) *Result {
	level = graph.ClampDepth(level)
	res := &Result{Level: level, GroupOf: map[string]string{}}

	if level == graph.DepthDetail {
		for i := range nodes {
			res.Nodes = append(res.Nodes, viewNode(&nodes[i]))
		}
		res.Edges = append(res.Edges, edges...)
		return res
	}

	depths := graph.EffectiveDepths(nodes)
	taken := make(map[string]bool, len(nodes))
	var categories []string
	buckets := make(map[string][]*graph.Node)

	for i := range nodes {
		n := &nodes[i]
		taken[n.ID] = true
		if depths[n.ID] <= level {
			continue
		}
		if _, ok := buckets[n.Category]; !ok {
			categories = append(categories, n.Category)
		}
		buckets[n.Category] = append(buckets[n.Category], n)
	}

	var groups []graph.ViewNode
	for _, cat := range categories {
		members := buckets[cat]
		if len(members) < 2 {
			continue
		}
		id := groupID(cat, taken)
		taken[id] = true
		for _, m := range members {
			res.GroupOf[m.ID] = id
		}
		groups = append(groups, groupNode(id, cat, members, sourceTemplate))
	}

	for i := range nodes {
		if _, merged := res.GroupOf[nodes[i].ID]; !merged {
			res.Nodes = append(res.Nodes, viewNode(&nodes[i]))
		}
	}
	res.Nodes = append(res.Nodes, groups...)
	res.Edges = remapEdges(edges, res)
	return res
}

// groupID returns "group:<category>", suffixed with ~2, ~3, ... while the ID
// is already taken.
func groupID(category string, taken map[string]bool) string {
	base := graph.GroupIDPrefix + category
	id := base
	for i := 2; taken[id]; i++ {
		id = fmt.Sprintf("%s~%d", base, i)
	}
	return id
}

func groupNode(id, category string, members []*graph.Node, sourceTemplate string) graph.ViewNode {
	label := graph.LookupCategory(category).Label
	g := graph.ViewNode{
		ID:          id,
		Category:    category,
		Label:       fmt.Sprintf("%s (%d)", label, len(members)),
		Description: fmt.Sprintf("%d %s nodes", len(members), strings.ToLower(label)),
		Layer:       modeLayer(members),
		IsGroup:     true,
		MemberCount: len(members),
	}

	seen := make(map[string]bool)
	for _, m := range members {
		g.Members = append(g.Members, graph.MemberSummary{
			ID:          m.ID,
			Label:       m.DisplayLabel(),
			Description: m.Description,
			FilePath:    m.FilePath,
			SourceURL:   graph.ResolveSourceURL(sourceTemplate, m.FilePath),
		})
		for _, uc := range m.UseCases {
			if !seen[uc] {
				seen[uc] = true
				g.UseCases = append(g.UseCases, uc)
			}
		}
	}
	return g
}

// modeLayer returns the most frequent member layer. Ties go to the value
// seen first.
func modeLayer(members []*graph.Node) int {
	counts := make(map[int]int, len(members))
	var order []int
	for _, m := range members {
		l := m.LayerValue()
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	best, bestCount := 0, 0
	for _, l := range order {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

func remapEdges(edges []graph.Edge, res *Result) []graph.Edge {
	present := make(map[string]bool, len(res.Nodes))
	for _, n := range res.Nodes {
		present[n.ID] = true
	}

	type pair struct{ source, target string }
	seen := make(map[pair]bool, len(edges))
	var out []graph.Edge
	for _, e := range edges {
		if g, ok := res.GroupOf[e.Source]; ok {
			e.Source = g
		}
		if g, ok := res.GroupOf[e.Target]; ok {
			e.Target = g
		}
		if e.Source == e.Target || !present[e.Source] || !present[e.Target] {
			continue
		}
		k := pair{e.Source, e.Target}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

func viewNode(n *graph.Node) graph.ViewNode {
	return graph.ViewNode{
		ID:          n.ID,
		Category:    n.Category,
		Label:       n.DisplayLabel(),
		Description: n.Description,
		Layer:       n.LayerValue(),
		UseCases:    n.UseCases,
	}
}
