package graph

// =============================================================================
// Constants
// =============================================================================

// SchemaVersion is the only document version accepted by [Validate].
const SchemaVersion = "1.0"

// Layout modes selectable through Project.Layout.
const (
	LayoutDagre      = "dagre"
	LayoutConcentric = "concentric"
)

// Edge types. An empty type is treated as EdgeDependency.
const (
	EdgeDependency = "dependency"
	EdgeImplements = "implements"
	EdgeRelation   = "relation"
)

// Depth levels for the three-bucket node classification.
const (
	DepthOverview = 0
	DepthStandard = 1
	DepthDetail   = 2
)

// GroupIDPrefix namespaces synthetic group node ids. Real node ids are
// kebab-case and can never contain ':'.
const GroupIDPrefix = "group:"

// =============================================================================
// Document - architecture.json
// =============================================================================

// Document is the architecture description consumed by every command.
//
// Layout and Views are populated by the build step; readers that only need
// structure may ignore them. Unknown top-level keys are dropped on round trip.
type Document struct {
	Version  string            `json:"version" yaml:"version"`
	Project  Project           `json:"project" yaml:"project"`
	Nodes    []Node            `json:"nodes" yaml:"nodes"`
	Edges    []Edge            `json:"edges" yaml:"edges"`
	UseCases []UseCase         `json:"useCases,omitempty" yaml:"useCases,omitempty"`
	Schemas  map[string]Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`

	Layout map[string]Position `json:"_layout,omitempty" yaml:"_layout,omitempty"`
	Views  []View              `json:"_views,omitempty" yaml:"_views,omitempty"`
	Build  *BuildInfo          `json:"_build,omitempty" yaml:"_build,omitempty"`
}

// Project holds document-level settings.
type Project struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Framework   string `json:"framework,omitempty" yaml:"framework,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"` // template containing {filePath}
	Layout      string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// LayoutMode returns the project's layout mode, defaulting to dagre for an
// empty or unrecognized value.
func (p Project) LayoutMode() string {
	if p.Layout == LayoutConcentric {
		return LayoutConcentric
	}
	return LayoutDagre
}

// =============================================================================
// Node
// =============================================================================

// Node is one architectural component.
type Node struct {
	ID              string          `json:"id" yaml:"id"`
	Category        string          `json:"category" yaml:"category"`
	Label           string          `json:"label" yaml:"label"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty"`
	Layer           *int            `json:"layer,omitempty" yaml:"layer,omitempty"`
	Depth           *int            `json:"depth,omitempty" yaml:"depth,omitempty"`
	FilePath        string          `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	Methods         []string        `json:"methods,omitempty" yaml:"methods,omitempty"`
	Routes          []string        `json:"routes,omitempty" yaml:"routes,omitempty"`
	UseCases        []string        `json:"useCases,omitempty" yaml:"useCases,omitempty"`
	Schema          string          `json:"schema,omitempty" yaml:"schema,omitempty"`
	Implements      string          `json:"implements,omitempty" yaml:"implements,omitempty"`
	ExternalService string          `json:"externalService,omitempty" yaml:"externalService,omitempty"`
	SQLExamples     []string        `json:"sqlExamples,omitempty" yaml:"sqlExamples,omitempty"`
	Metadata        []MetadataEntry `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LayerValue returns the node's layer, or 0 when unset.
func (n *Node) LayerValue() int {
	if n.Layer == nil {
		return 0
	}
	return *n.Layer
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// MetadataEntry is a free-form labelled value shown in the detail panel.
type MetadataEntry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed dependency between two nodes.
type Edge struct {
	Source      string          `json:"source" yaml:"source"`
	Target      string          `json:"target" yaml:"target"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty"`
	Type        string          `json:"type,omitempty" yaml:"type,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Metadata    []MetadataEntry `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsRelation reports whether the edge is a non-directional relation. Relation
// edges take part in layout but not in cycle detection.
func (e *Edge) IsRelation() bool { return e.Type == EdgeRelation }

// =============================================================================
// Use cases and schemas
// =============================================================================

// UseCase names a flow through a subset of nodes.
type UseCase struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	NodeIDs     []string `json:"nodeIds" yaml:"nodeIds"`
	Flow        []string `json:"flow,omitempty" yaml:"flow,omitempty"`
}

// Schema describes a database table referenced by Node.Schema.
type Schema struct {
	TableName  string                       `json:"tableName" yaml:"tableName"`
	Columns    []Column                     `json:"columns" yaml:"columns"`
	Indexes    []string                     `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	EnumValues map[string]map[string]string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
}

// Column is one table column.
type Column struct {
	Name       string      `json:"name" yaml:"name"`
	Type       string      `json:"type" yaml:"type"`
	Nullable   bool        `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Default    string      `json:"default,omitempty" yaml:"default,omitempty"`
	Index      string      `json:"index,omitempty" yaml:"index,omitempty"`
	ForeignKey *ForeignKey `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty"`
}

// ForeignKey references a column in another table.
type ForeignKey struct {
	Table    string `json:"table" yaml:"table"`
	Column   string `json:"column" yaml:"column"`
	OnDelete string `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
}

// =============================================================================
// Build output
// =============================================================================

// Position is a node's top-left corner as persisted in _layout.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// View is a precomputed reduced graph for one (depth, layout) combination.
type View struct {
	Depth     int                 `json:"depth" yaml:"depth"`
	Layout    string              `json:"layout" yaml:"layout"`
	Nodes     []ViewNode          `json:"nodes" yaml:"nodes"`
	Edges     []Edge              `json:"edges" yaml:"edges"`
	Positions map[string]Position `json:"positions" yaml:"positions"`
}

// ViewNode is a node as it appears in a reduced view. Group nodes carry their
// members; kept nodes have MemberCount 0.
type ViewNode struct {
	ID          string          `json:"id" yaml:"id"`
	Category    string          `json:"category" yaml:"category"`
	Label       string          `json:"label" yaml:"label"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Layer       int             `json:"layer" yaml:"layer"`
	Width       float64         `json:"width" yaml:"width"`
	Height      float64         `json:"height" yaml:"height"`
	UseCases    []string        `json:"useCases,omitempty" yaml:"useCases,omitempty"`
	IsGroup     bool            `json:"isGroup,omitempty" yaml:"isGroup,omitempty"`
	MemberCount int             `json:"memberCount,omitempty" yaml:"memberCount,omitempty"`
	Members     []MemberSummary `json:"memberNodes,omitempty" yaml:"memberNodes,omitempty"`
}

// MemberSummary describes one node folded into a group.
type MemberSummary struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	FilePath    string `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// BuildInfo records how _layout was produced.
type BuildInfo struct {
	ID        string `json:"id" yaml:"id"`
	Version   string `json:"version" yaml:"version"`
	Layout    string `json:"layout" yaml:"layout"`
	Generated string `json:"generated" yaml:"generated"` // RFC 3339
}
