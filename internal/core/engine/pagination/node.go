package pagination

import "pagecore/internal/core/domain"

// Node is the document-tree contract the pagination core is polymorphic
// over (spec §6). Any editor or markup tree can satisfy it; the core never
// imports a concrete tree implementation.
type Node interface {
	Kind() domain.NodeKind
	Attrs() domain.NodeAttrs
	TextContent() string
	Children() []Node
	IsText() bool
	// Pos reports this node's offset in the document's linear position
	// space (spec §6): a cumulative count of the content preceding it,
	// not its sibling index. Change.From/To and every cache-invalidation
	// range are expressed in this same space, so a tree implementation
	// that returns sibling indices here silently breaks that contract.
	Pos() uint64
}
