package render

import (
	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/pagination"

	"github.com/fogleman/gg"
)

// fakeNode is a minimal pagination.Node for exercising the renderers without
// pulling in the tree adapter or a real HTML document.
type fakeNode struct {
	kind     domain.NodeKind
	text     string
	attrs    domain.NodeAttrs
	children []pagination.Node
	pos      uint64
}

func (f *fakeNode) Kind() domain.NodeKind   { return f.kind }
func (f *fakeNode) Attrs() domain.NodeAttrs { return f.attrs }
func (f *fakeNode) TextContent() string     { return f.text }
func (f *fakeNode) Children() []pagination.Node {
	return f.children
}
func (f *fakeNode) IsText() bool { return f.kind == domain.KindText }
func (f *fakeNode) Pos() uint64  { return f.pos }

func simpleModel(dims pagination.PageDimensions, pages ...pagination.PageBoundary) *pagination.PaginationModel {
	return &pagination.PaginationModel{Dimensions: dims, Pages: pages}
}

func newTestCanvas(w, h int) *gg.Context {
	return gg.NewContext(w, h)
}
