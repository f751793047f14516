// Package graph defines the architecture document consumed and produced by
// archrip, along with its category table and validation rules.
//
// # Document
//
// A [Document] is the contents of architecture.json (or .yaml): project
// settings, [Node] components, [Edge] dependencies, use cases and table
// schemas. The build step adds a _layout map of node positions and,
// optionally, precomputed reduced [View] records per depth level.
//
// # Categories
//
// Categories are an open set. [LookupCategory] resolves any name to a
// [Category] record with a display label, colours and a ring priority for
// concentric layouts; names outside the table get a fallback record.
//
// # Validation
//
// [Validate] enforces the document rules (kebab-case unique ids, layer range,
// edge endpoints, use case references, acyclic non-relation edges) and
// returns a [Report] of errors and warnings. Layout code assumes a document
// that passed validation.
//
// # Encoding
//
// [ReadFile] and [WriteFile] select JSON or YAML by file extension.
package graph
