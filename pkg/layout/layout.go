package layout

import (
	"fmt"
	"strings"

	"github.com/archrip/archrip/pkg/errors"
)

// Kind selects a layout algorithm.
type Kind string

const (
	// KindHierarchical stacks nodes top to bottom by layer.
	KindHierarchical Kind = "dagre"
	// KindConcentric rings nodes around the origin by category priority.
	KindConcentric Kind = "concentric"
)

// Kinds lists the supported layout kinds.
var Kinds = []Kind{KindHierarchical, KindConcentric}

// ParseKind maps a layout name to a Kind. The empty string selects
// [KindHierarchical].
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindHierarchical, "hierarchical":
		return KindHierarchical, nil
	case KindConcentric:
		return KindConcentric, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (want %s or %s)", s, KindHierarchical, KindConcentric)
}

func (k Kind) String() string { return string(k) }

// Func is the shared signature of every layout algorithm.
type Func func(nodes []Node, edges []Edge, p Params) map[string]Box

// Func returns the algorithm for k. Unknown kinds fall back to
// [Hierarchical].
func (k Kind) Func() Func {
	if k == KindConcentric {
		return Concentric
	}
	return Hierarchical
}

// Node is a layout input. Width and Height override the size derived from
// Group when both are positive.
type Node struct {
	ID       string
	Category string
	Layer    int
	Group    bool
	Width    float64
	Height   float64
}

// Edge is a directed layout input. Edges naming unknown nodes and
// self-loops are ignored.
type Edge struct {
	Source string
	Target string
}

// Box is a placed node. X and Y are the top-left corner.
type Box struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

func (b Box) String() string {
	return fmt.Sprintf("%s@(%.1f,%.1f %gx%g)", b.ID, b.X, b.Y, b.Width, b.Height)
}

// Compute lays out nodes with the algorithm selected by kind. Every input
// node gets exactly one box; an empty input yields an empty map.
func Compute(kind Kind, nodes []Node, edges []Edge, p Params) map[string]Box {
	return kind.Func()(nodes, edges, p)
}
