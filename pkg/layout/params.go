package layout

// Params holds the geometry shared by both layouts. Zero fields are replaced
// by [DefaultParams] values in [Params.WithDefaults].
type Params struct {
	NodeWidth   float64 `json:"node_width" mapstructure:"node_width" toml:"node_width"`
	NodeHeight  float64 `json:"node_height" mapstructure:"node_height" toml:"node_height"`
	GroupWidth  float64 `json:"group_width" mapstructure:"group_width" toml:"group_width"`
	GroupHeight float64 `json:"group_height" mapstructure:"group_height" toml:"group_height"`

	// Hierarchical spacing.
	RankSep float64 `json:"rank_sep" mapstructure:"rank_sep" toml:"rank_sep"`
	NodeSep float64 `json:"node_sep" mapstructure:"node_sep" toml:"node_sep"`
	EdgeSep float64 `json:"edge_sep" mapstructure:"edge_sep" toml:"edge_sep"` // gap around long-edge bend points
	MarginX float64 `json:"margin_x" mapstructure:"margin_x" toml:"margin_x"`
	MarginY float64 `json:"margin_y" mapstructure:"margin_y" toml:"margin_y"`

	// Concentric spacing.
	RingSpacing float64 `json:"ring_spacing" mapstructure:"ring_spacing" toml:"ring_spacing"`
	MinArc      float64 `json:"min_arc" mapstructure:"min_arc" toml:"min_arc"`

	// Iteration limits for the hierarchical layout.
	OrderingSweeps  int `json:"ordering_sweeps" mapstructure:"ordering_sweeps" toml:"ordering_sweeps"`
	PlacementPasses int `json:"placement_passes" mapstructure:"placement_passes" toml:"placement_passes"`
}

// Default geometry.
const (
	DefaultNodeWidth       = 180
	DefaultNodeHeight      = 80
	DefaultGroupWidth      = 200
	DefaultGroupHeight     = 90
	DefaultRankSep         = 160
	DefaultNodeSep         = 40
	DefaultEdgeSep         = 20
	DefaultMargin          = 40
	DefaultRingSpacing     = 250
	DefaultMinArc          = 200
	DefaultOrderingSweeps  = 24
	DefaultPlacementPasses = 8
)

// DefaultParams returns the reference geometry.
func DefaultParams() Params {
	return Params{
		NodeWidth:       DefaultNodeWidth,
		NodeHeight:      DefaultNodeHeight,
		GroupWidth:      DefaultGroupWidth,
		GroupHeight:     DefaultGroupHeight,
		RankSep:         DefaultRankSep,
		NodeSep:         DefaultNodeSep,
		EdgeSep:         DefaultEdgeSep,
		MarginX:         DefaultMargin,
		MarginY:         DefaultMargin,
		RingSpacing:     DefaultRingSpacing,
		MinArc:          DefaultMinArc,
		OrderingSweeps:  DefaultOrderingSweeps,
		PlacementPasses: DefaultPlacementPasses,
	}
}

// WithDefaults returns a copy of p with every non-positive field replaced by
// its default. Margins may legitimately be zero and are left alone unless
// negative.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	pos := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	pos(&p.NodeWidth, d.NodeWidth)
	pos(&p.NodeHeight, d.NodeHeight)
	pos(&p.GroupWidth, d.GroupWidth)
	pos(&p.GroupHeight, d.GroupHeight)
	pos(&p.RankSep, d.RankSep)
	pos(&p.NodeSep, d.NodeSep)
	pos(&p.EdgeSep, d.EdgeSep)
	pos(&p.RingSpacing, d.RingSpacing)
	pos(&p.MinArc, d.MinArc)
	if p.MarginX < 0 {
		p.MarginX = d.MarginX
	}
	if p.MarginY < 0 {
		p.MarginY = d.MarginY
	}
	if p.OrderingSweeps <= 0 {
		p.OrderingSweeps = d.OrderingSweeps
	}
	if p.PlacementPasses <= 0 {
		p.PlacementPasses = d.PlacementPasses
	}
	return p
}

// Size returns the box dimensions for n.
func (p Params) Size(n Node) (w, h float64) {
	if n.Width > 0 && n.Height > 0 {
		return n.Width, n.Height
	}
	if n.Group {
		return p.GroupWidth, p.GroupHeight
	}
	return p.NodeWidth, p.NodeHeight
}
