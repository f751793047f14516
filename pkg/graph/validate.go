package graph

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/archrip/archrip/pkg/errors"
)

// MinLayer and MaxLayer bound Node.Layer.
const (
	MinLayer = 0
	MaxLayer = 100
)

// Issue is one validation finding, addressed by a JSON-path-like location.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string { return i.Path + ": " + i.Message }

// Report collects the errors and warnings found by [Validate].
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// OK reports whether the document has no errors. Warnings do not count.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err returns nil for a valid document, otherwise an error coded
// [errors.ErrCodeInvalidDocument] listing every issue. A document whose only
// problem is a dependency cycle is coded [errors.ErrCodeCycleDetected].
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	code := errors.ErrCodeInvalidDocument
	if !slices.ContainsFunc(r.Errors, func(i Issue) bool { return i.Path != "edges" }) {
		code = errors.ErrCodeCycleDetected
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	return errors.New(code, "%d validation error(s): %s", len(r.Errors), strings.Join(msgs, "; "))
}

func (r *Report) errorf(path, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a document for structural problems. It never fails fast:
// every issue found is recorded in the returned report.
func Validate(doc *Document) *Report {
	r := &Report{}
	if doc == nil {
		r.errorf("root", "document is empty")
		return r
	}

	if doc.Version != SchemaVersion {
		r.errorf("version", "expected %q, got %q", SchemaVersion, doc.Version)
	}
	if doc.Project.Name == "" {
		r.errorf("project.name", "required field missing")
	}
	if tmpl := doc.Project.SourceURL; tmpl != "" {
		if err := errors.ValidateURL(strings.Replace(tmpl, FilePathPlaceholder, "test", 1)); err != nil {
			r.errorf("project.sourceUrl", "must be an http(s) URL template: %s", errors.UserMessage(err))
		}
	}
	if l := doc.Project.Layout; l != "" && l != LayoutDagre && l != LayoutConcentric {
		r.warnf("project.layout", "unknown layout %q, falling back to %s", l, LayoutDagre)
	}

	ids := validateNodes(r, doc.Nodes)
	validateEdges(r, doc.Edges, ids)
	validateUseCases(r, doc.UseCases, ids)
	validateSchemaRefs(r, doc)
	warnOrphans(r, doc)
	detectCycles(r, doc)
	return r
}

func validateNodes(r *Report, nodes []Node) map[string]bool {
	ids := make(map[string]bool, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		prefix := fmt.Sprintf("nodes[%d]", i)

		if n.ID == "" {
			r.errorf(prefix+".id", "required")
		} else if err := errors.ValidateID(n.ID); err != nil {
			r.errorf(prefix+".id", "must be lowercase kebab-case (e.g. \"svc-users\")")
		} else if ids[n.ID] {
			r.errorf(prefix+".id", "duplicate node id: %q", n.ID)
		}
		if n.ID != "" {
			ids[n.ID] = true
		}

		if n.Category == "" {
			r.errorf(prefix+".category", "required")
		}
		if n.Label == "" {
			r.errorf(prefix+".label", "required")
		}
		if n.Layer == nil {
			r.errorf(prefix+".layer", "must be a number")
		} else if *n.Layer < MinLayer || *n.Layer > MaxLayer {
			r.errorf(prefix+".layer", "must be an integer between %d and %d", MinLayer, MaxLayer)
		}
		if n.Depth != nil && (*n.Depth < DepthOverview || *n.Depth > DepthDetail) {
			r.errorf(prefix+".depth", "must be 0, 1, or 2")
		}
		if err := errors.ValidatePath(n.FilePath); err != nil {
			r.errorf(prefix+".filePath", "must be a relative path without \"..\" segments")
		}
	}
	return ids
}

func validateEdges(r *Report, edges []Edge, ids map[string]bool) {
	for i := range edges {
		e := &edges[i]
		prefix := fmt.Sprintf("edges[%d]", i)
		if e.Source == "" {
			r.errorf(prefix+".source", "required")
		} else if !ids[e.Source] {
			r.errorf(prefix+".source", "references unknown node: %q", e.Source)
		}
		if e.Target == "" {
			r.errorf(prefix+".target", "required")
		} else if !ids[e.Target] {
			r.errorf(prefix+".target", "references unknown node: %q", e.Target)
		}
		switch e.Type {
		case "", EdgeDependency, EdgeImplements, EdgeRelation:
		default:
			r.errorf(prefix+".type", "must be one of: %s, %s, %s", EdgeDependency, EdgeImplements, EdgeRelation)
		}
	}
}

func validateUseCases(r *Report, useCases []UseCase, ids map[string]bool) {
	seen := make(map[string]bool, len(useCases))
	for i := range useCases {
		uc := &useCases[i]
		prefix := fmt.Sprintf("useCases[%d]", i)
		if uc.ID == "" {
			r.errorf(prefix+".id", "required")
		} else if seen[uc.ID] {
			r.errorf(prefix+".id", "duplicate use case id: %q", uc.ID)
		}
		seen[uc.ID] = true
		if uc.Name == "" {
			r.errorf(prefix+".name", "required")
		}
		for _, id := range uc.NodeIDs {
			if !ids[id] {
				r.errorf(prefix+".nodeIds", "references unknown node: %q", id)
			}
		}
	}
}

func validateSchemaRefs(r *Report, doc *Document) {
	for i := range doc.Nodes {
		ref := doc.Nodes[i].Schema
		if ref == "" {
			continue
		}
		if _, ok := doc.Schemas[ref]; !ok {
			r.warnf(fmt.Sprintf("nodes[%d].schema", i), "references unknown schema: %q", ref)
		}
	}
}

func warnOrphans(r *Report, doc *Document) {
	connected := make(map[string]bool, len(doc.Nodes))
	for _, e := range doc.Edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}
	for _, n := range doc.Nodes {
		if n.ID != "" && !connected[n.ID] {
			r.warnf("nodes", "orphan node %q has no edges", n.ID)
		}
	}
}

// detectCycles reports every strongly connected component of the
// non-relation edge graph that contains a cycle. Members are listed in
// document order.
func detectCycles(r *Report, doc *Document) {
	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64, len(doc.Nodes))
	order := make(map[string]int, len(doc.Nodes))
	nodeToID := make(map[int64]string, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := idToNode[n.ID]; dup {
			continue
		}
		gn := g.NewNode()
		g.AddNode(gn)
		idToNode[n.ID] = gn.ID()
		nodeToID[gn.ID()] = n.ID
		order[n.ID] = i
	}

	for i := range doc.Edges {
		e := &doc.Edges[i]
		if e.IsRelation() {
			continue
		}
		u, okU := idToNode[e.Source]
		v, okV := idToNode[e.Target]
		if !okU || !okV {
			continue
		}
		if u == v {
			r.errorf("edges", "circular dependency: %q depends on itself", e.Source)
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(u), g.Node(v)))
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		members := make([]string, len(scc))
		for i, n := range scc {
			members[i] = nodeToID[n.ID()]
		}
		slices.SortFunc(members, func(a, b string) int { return order[a] - order[b] })
		cycles = append(cycles, members)
	}
	slices.SortFunc(cycles, func(a, b []string) int { return order[a[0]] - order[b[0]] })
	for _, c := range cycles {
		r.errorf("edges", "circular dependency detected involving %s", quoteAll(c))
	}
}

func quoteAll(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = fmt.Sprintf("%q", id)
	}
	return strings.Join(q, ", ")
}
