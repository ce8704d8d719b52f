package pagination

import "pagecore/internal/core/domain"

// BlockMeasurement is the result of measuring one top-level block.
type BlockMeasurement struct {
	Pos          uint64
	Type         domain.NodeKind
	Height       float64
	Splittable   bool
	MinHeight    float64 // valid only when Splittable
	HasMinHeight bool
	ItemHeights  []float64 // per-child heights, valid only when Splittable
}

// Placement attributes a block (or a contiguous slice of a splittable block)
// to one page.
type Placement struct {
	Pos         uint64          `json:"pos"`
	Height      float64         `json:"height"`
	Type        domain.NodeKind `json:"type"`
	IsPageBreak bool            `json:"isPageBreak"`
}

// PageBoundary is one page of a PaginationModel.
type PageBoundary struct {
	PageNumber    int         `json:"pageNumber"`
	StartPos      uint64      `json:"startPos"`
	EndPos        uint64      `json:"endPos"`
	ContentHeight float64     `json:"contentHeight"`
	ForcedBreak   bool        `json:"forcedBreak"`
	NodePositions []Placement `json:"nodePositions"`
}

// PaginationModel is the output of one compute pass.
type PaginationModel struct {
	Pages              []PageBoundary `json:"pages"`
	Dimensions         PageDimensions `json:"dimensions"`
	TotalContentHeight float64        `json:"totalContentHeight"`
}

// PageCount returns len(Pages).
func (m *PaginationModel) PageCount() int {
	if m == nil {
		return 0
	}
	return len(m.Pages)
}

// Equal implements the pages-changed predicate of spec §4.5: same page
// count and, for every page, identical StartPos/EndPos/ForcedBreak.
// Placement membership is deliberately excluded.
func (m *PaginationModel) Equal(other *PaginationModel) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.Pages) != len(other.Pages) {
		return false
	}
	for i := range m.Pages {
		a, b := m.Pages[i], other.Pages[i]
		if a.StartPos != b.StartPos || a.EndPos != b.EndPos || a.ForcedBreak != b.ForcedBreak {
			return false
		}
	}
	return true
}
