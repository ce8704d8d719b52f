package pagination

import (
	"reflect"
	"strings"
	"testing"

	"pagecore/internal/core/domain"
)

func textOfLength(n int) string {
	return strings.Repeat("a", n)
}

// newTestComputer returns a PageComputer wired to a Measurer over dims wide
// enough to produce 10 characters per line (contentWidth=70) and a
// contentHeight of 100, with the default 14pt line height. A paragraph of
// 20 characters wraps to two lines: height = 2*14+12 = 40.
func newTestComputer() (*PageComputer, PageDimensions, PaginationConfig) {
	dims := PageDimensions{ContentWidth: 70, ContentHeight: 100}
	cfg := DefaultPaginationConfig()
	cfg.DefaultLineHeight = 14
	c := NewPageComputer(cfg, dims)
	c.SetMeasurer(NewMeasurer(dims, cfg, 100))
	return c, dims, cfg
}

// docTree builds a synthetic top-level document tree. Each child's pos is
// assigned as its index among its siblings, standing in for the
// cumulative-offset position scheme a real tree adapter would compute.
func docTree(children ...Node) *fakeNode {
	for i, child := range children {
		if fn, ok := child.(*fakeNode); ok {
			fn.pos = uint64(i)
		}
	}
	return &fakeNode{kind: domain.KindParagraph, children: children}
}

func TestComputeRequiresMeasurer(t *testing.T) {
	c := NewPageComputer(DefaultPaginationConfig(), PageDimensions{ContentHeight: 100})
	if _, err := c.Compute(docTree()); err != ErrMeasurerNotAttached {
		t.Errorf("Compute() error = %v, want ErrMeasurerNotAttached", err)
	}
}

func TestComputePacksBlocksAcrossPages(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
	)

	model, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(model.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2: %+v", len(model.Pages), model.Pages)
	}
	if len(model.Pages[0].NodePositions) != 2 {
		t.Errorf("page 1 placements = %d, want 2", len(model.Pages[0].NodePositions))
	}
	if len(model.Pages[1].NodePositions) != 1 {
		t.Errorf("page 2 placements = %d, want 1", len(model.Pages[1].NodePositions))
	}
	if model.Pages[0].ForcedBreak {
		t.Errorf("page 1 ForcedBreak = true, want false (overflow break, not forced)")
	}
}

func TestComputeForcedPageBreak(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(
		paragraph(textOfLength(10)),
		&fakeNode{kind: domain.KindPageBreak},
		paragraph(textOfLength(10)),
	)

	model, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(model.Pages) != 2 {
		t.Fatalf("len(Pages) = %d, want 2", len(model.Pages))
	}
	// the page break marks the START of the following page, not the one
	// it closes out
	if model.Pages[0].ForcedBreak {
		t.Errorf("page 1 ForcedBreak = true, want false")
	}
	if !model.Pages[1].ForcedBreak {
		t.Errorf("page 2 ForcedBreak = false, want true")
	}
}

func TestComputeEmptyTreeProducesOneEmptyPage(t *testing.T) {
	c, _, _ := newTestComputer()
	model, err := c.Compute(docTree())
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(model.Pages) != 1 {
		t.Fatalf("len(Pages) = %d, want 1 for empty document", len(model.Pages))
	}
	if len(model.Pages[0].NodePositions) != 0 {
		t.Errorf("page 1 placements = %d, want 0 for empty document", len(model.Pages[0].NodePositions))
	}
}

func TestOrphanGuardPopsShortTrailingParagraph(t *testing.T) {
	// A single-line paragraph (height = 1*14+12 = 26) falls under the
	// 2*lineHeight = 28 threshold, so it should be bumped to the next page
	// rather than left as an orphan at the very bottom of this one.
	c, dims, cfg := newTestComputer()
	c.SetDimensions(PageDimensions{ContentWidth: dims.ContentWidth, ContentHeight: 83})
	c.SetMeasurer(NewMeasurer(PageDimensions{ContentWidth: dims.ContentWidth, ContentHeight: 83}, cfg, 100))

	tree := docTree(
		paragraph(textOfLength(20)), // height 40
		paragraph(textOfLength(5)),  // height 26, running total 66: the short trailing paragraph
		paragraph(textOfLength(20)), // height 40, would push to 106 > 83: overflow
	)

	model, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(model.Pages) < 1 {
		t.Fatalf("no pages produced")
	}
	for _, pl := range model.Pages[0].NodePositions {
		if pl.Pos == 1 && pl.Height < 28 {
			t.Errorf("short trailing paragraph was not orphan-guarded off page 1")
		}
	}
}

func TestGetPageForPosition(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
	)
	model, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if got := c.GetPageForPosition(model, 0); got != 1 {
		t.Errorf("GetPageForPosition(0) = %d, want 1", got)
	}
	if got := c.GetPageForPosition(model, 3); got != 2 {
		t.Errorf("GetPageForPosition(3) = %d, want 2", got)
	}
	if got := c.GetPageForPosition(model, 999); got != model.Pages[len(model.Pages)-1].PageNumber {
		t.Errorf("GetPageForPosition(999) = %d, want last page", got)
	}
	if got := c.GetPageForPosition(nil, 0); got != 0 {
		t.Errorf("GetPageForPosition(nil) = %d, want 0", got)
	}
}

func TestGetPage(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(paragraph(textOfLength(20)))
	model, _ := c.Compute(tree)

	if got := c.GetPage(model, 1); got == nil {
		t.Fatalf("GetPage(1) = nil, want page 1")
	}
	if got := c.GetPage(model, 0); got != nil {
		t.Errorf("GetPage(0) = %+v, want nil", got)
	}
	if got := c.GetPage(model, 99); got != nil {
		t.Errorf("GetPage(99) = %+v, want nil", got)
	}
}

func TestComputeFromKeepsPriorPagesBeforeFromPos(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
	)
	prior, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	// re-run from a position within the already-kept first page: the
	// first page should be preserved verbatim, only the remainder rebuilt.
	fromPos := prior.Pages[0].EndPos
	model, err := c.ComputeFrom(tree, prior, fromPos)
	if err != nil {
		t.Fatalf("ComputeFrom() error: %v", err)
	}
	if !reflect.DeepEqual(model.Pages[0], prior.Pages[0]) {
		t.Errorf("ComputeFrom() changed the kept first page:\nold=%+v\nnew=%+v", prior.Pages[0], model.Pages[0])
	}
	if len(model.Pages) != len(prior.Pages) {
		t.Errorf("len(Pages) = %d, want %d", len(model.Pages), len(prior.Pages))
	}
}

func TestComputeFromWithNilPriorFallsBackToFullCompute(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(paragraph(textOfLength(20)))

	full, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	fromNil, err := c.ComputeFrom(tree, nil, 0)
	if err != nil {
		t.Fatalf("ComputeFrom(nil) error: %v", err)
	}
	if len(fromNil.Pages) != len(full.Pages) {
		t.Errorf("ComputeFrom(nil) produced %d pages, want %d (same as Compute)", len(fromNil.Pages), len(full.Pages))
	}
}

func TestComputeFromRenumbersRebuiltPages(t *testing.T) {
	c, _, _ := newTestComputer()
	tree := docTree(
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
		paragraph(textOfLength(20)),
	)
	prior, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	model, err := c.ComputeFrom(tree, prior, 0)
	if err != nil {
		t.Fatalf("ComputeFrom() error: %v", err)
	}
	for i, p := range model.Pages {
		if p.PageNumber != i+1 {
			t.Errorf("page %d has PageNumber %d, want %d", i, p.PageNumber, i+1)
		}
	}
}

func TestSplitFitKeepsHeaderAndAppliesWidowCorrection(t *testing.T) {
	tests := []struct {
		name        string
		itemHeights []float64
		available   float64
		wantCount   int
	}{
		{
			name:        "all items fit",
			itemHeights: []float64{10, 10, 10},
			available:   100,
			wantCount:   3,
		},
		{
			name:        "widow correction backs off when exactly one item would overflow",
			itemHeights: []float64{10, 10, 10, 10},
			available:   35, // fits header+2 rows (30), leaving exactly 1 orphaned row
			wantCount:   2,  // backs off from 3 to 2 to avoid stranding a single row
		},
		{
			name:        "no widow correction when only the header fits",
			itemHeights: []float64{10, 10},
			available:   15,
			wantCount:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, _ := splitFit(tt.itemHeights, tt.available)
			if count != tt.wantCount {
				t.Errorf("splitFit() count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestSplitFitEmptyInput(t *testing.T) {
	count, height := splitFit(nil, 100)
	if count != 0 || height != 0 {
		t.Errorf("splitFit(nil) = (%d, %v), want (0, 0)", count, height)
	}
}

func TestComputeSplitsOversizedTableAcrossPages(t *testing.T) {
	dims := PageDimensions{ContentWidth: 200, ContentHeight: 70}
	cfg := DefaultPaginationConfig()
	c := NewPageComputer(cfg, dims)
	c.SetMeasurer(NewMeasurer(dims, cfg, 100))

	rows := make([]Node, 6)
	for i := range rows {
		rows[i] = &fakeNode{kind: domain.KindTableRow}
	}
	table := &fakeNode{kind: domain.KindTable, children: rows}
	tree := docTree(table)

	model, err := c.Compute(tree)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(model.Pages) < 2 {
		t.Fatalf("expected the table to split across multiple pages, got %d", len(model.Pages))
	}
	totalPlacements := 0
	for _, pg := range model.Pages {
		totalPlacements += len(pg.NodePositions)
	}
	if totalPlacements != len(model.Pages) {
		t.Errorf("expected exactly one placement per page for the split table, got %d placements over %d pages", totalPlacements, len(model.Pages))
	}
}
