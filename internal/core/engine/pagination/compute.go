package pagination

import "pagecore/internal/core/domain"

// PageComputer packs an ordered sequence of BlockMeasurements into
// PageBoundarys, honoring available content height, forced breaks, the
// orphan guard, and container-splitting, per spec §4.2.
type PageComputer struct {
	measurer *Measurer
	dims     PageDimensions
	cfg      PaginationConfig
}

func NewPageComputer(cfg PaginationConfig, dims PageDimensions) *PageComputer {
	return &PageComputer{cfg: cfg, dims: dims}
}

// SetMeasurer attaches the Measurer used to produce BlockMeasurements.
func (c *PageComputer) SetMeasurer(m *Measurer) {
	c.measurer = m
}

// SetDimensions replaces the dimensions used on subsequent passes.
func (c *PageComputer) SetDimensions(d PageDimensions) {
	c.dims = d
}

// Compute runs a full pagination pass over tree. Requires a Measurer to
// have been attached via SetMeasurer.
func (c *PageComputer) Compute(tree Node) (*PaginationModel, error) {
	if c.measurer == nil {
		return nil, ErrMeasurerNotAttached
	}
	measurements := c.measurer.MeasureDocument(tree)
	return c.pack(measurements), nil
}

// ComputeFrom runs an incremental pass: pages of prior that end at or
// before fromPos are kept verbatim; the remainder of the document is
// re-measured and packed, with page numbers renumbered to continue the
// kept sequence (spec §4.5's "Incremental reflow").
func (c *PageComputer) ComputeFrom(tree Node, prior *PaginationModel, fromPos uint64) (*PaginationModel, error) {
	if c.measurer == nil {
		return nil, ErrMeasurerNotAttached
	}
	if prior == nil || len(prior.Pages) == 0 {
		return c.Compute(tree)
	}

	kept := make([]PageBoundary, 0, len(prior.Pages))
	for _, p := range prior.Pages {
		if p.StartPos <= fromPos && p.EndPos <= fromPos {
			kept = append(kept, p)
			continue
		}
		break
	}

	// Re-pack from where the first non-kept page started (never past
	// fromPos), so every block of the page containing fromPos is recomputed.
	restFrom, restForced := fromPos, false
	if len(kept) < len(prior.Pages) && prior.Pages[len(kept)].StartPos <= fromPos {
		restFrom, restForced = prior.Pages[len(kept)].StartPos, prior.Pages[len(kept)].ForcedBreak
	}

	measurements := c.measurer.MeasureDocument(tree)
	remainder := make([]BlockMeasurement, 0, len(measurements))
	for _, b := range measurements {
		if b.Pos >= restFrom {
			remainder = append(remainder, b)
		}
	}

	rest := &PaginationModel{}
	if len(remainder) > 0 || len(kept) == 0 {
		rest = c.pack(remainder)
	}
	if len(kept) > 0 && len(rest.Pages) > 0 {
		rest.Pages[0].StartPos, rest.Pages[0].ForcedBreak = restFrom, restForced
	}
	startNumber := len(kept) + 1
	for i := range rest.Pages {
		rest.Pages[i].PageNumber = startNumber + i
	}

	model := &PaginationModel{
		Dimensions: c.dims,
	}
	model.Pages = append(model.Pages, kept...)
	model.Pages = append(model.Pages, rest.Pages...)
	for _, p := range model.Pages {
		model.TotalContentHeight += p.ContentHeight
	}
	return model, nil
}

// GetPageForPosition returns the 1-indexed page number containing pos,
// or the last page if pos lies beyond the final endPos.
func (c *PageComputer) GetPageForPosition(model *PaginationModel, pos uint64) int {
	if model == nil || len(model.Pages) == 0 {
		return 0
	}
	for _, p := range model.Pages {
		if pos >= p.StartPos && pos < p.EndPos {
			return p.PageNumber
		}
	}
	return model.Pages[len(model.Pages)-1].PageNumber
}

// GetPage returns the nth (1-indexed) page, or nil if out of range.
func (c *PageComputer) GetPage(model *PaginationModel, n int) *PageBoundary {
	if model == nil || n < 1 || n > len(model.Pages) {
		return nil
	}
	return &model.Pages[n-1]
}

// pagePacker accumulates state across the single forward pass.
type pagePacker struct {
	dims              PageDimensions
	defaultLineHeight float64
	pages             []PageBoundary
	pageNum           int

	startPos      uint64
	currentHeight float64
	forcedBreak   bool
	placements    []Placement
	lastPos       uint64
	haveAny       bool
}

func (c *PageComputer) pack(measurements []BlockMeasurement) *PaginationModel {
	p := &pagePacker{
		dims:              c.dims,
		defaultLineHeight: c.cfg.DefaultLineHeight,
		pageNum:           1,
	}

	for _, b := range measurements {
		p.haveAny = true
		p.lastPos = b.Pos

		if b.Type == domain.KindPageBreak {
			p.finalizePage(b.Pos, true)
			p.startPos = b.Pos + 1
			p.forcedBreak = true
			continue
		}

		available := p.dims.ContentHeight
		if p.currentHeight+b.Height <= available {
			p.placements = append(p.placements, Placement{Pos: b.Pos, Height: b.Height, Type: b.Type})
			p.currentHeight += b.Height
			continue
		}

		p.handleOverflow(b)
	}

	if len(p.placements) > 0 || len(p.pages) == 0 {
		p.finalizePage(p.lastPos+1, len(p.pages) == 0)
	}

	model := &PaginationModel{Dimensions: c.dims, Pages: p.pages}
	for _, pg := range model.Pages {
		model.TotalContentHeight += pg.ContentHeight
	}
	return model
}

func (p *pagePacker) handleOverflow(b BlockMeasurement) {
	remaining := p.dims.ContentHeight - p.currentHeight

	if b.Splittable && len(b.ItemHeights) > 0 && b.HasMinHeight {
		if remaining >= b.MinHeight {
			keptCount, keptHeight := splitFit(b.ItemHeights, remaining)
			if keptCount > 0 {
				p.placements = append(p.placements, Placement{Pos: b.Pos, Height: keptHeight, Type: b.Type})
				p.currentHeight += keptHeight
			}
			p.applyOrphanGuard()
			p.finalizePage(b.Pos, false)
			p.startPos = b.Pos
			p.forcedBreak = false

			overflowCount := len(b.ItemHeights) - keptCount
			if overflowCount > 0 {
				p.splitAcrossPages(b, keptCount)
			}
			return
		}
	}

	p.applyOrphanGuard()
	if len(p.placements) > 0 && p.currentHeight+b.Height <= p.dims.ContentHeight {
		// the guard opened a new page holding only the popped paragraph
		p.placements = append(p.placements, Placement{Pos: b.Pos, Height: b.Height, Type: b.Type})
		p.currentHeight += b.Height
		return
	}
	p.finalizePage(b.Pos, false)
	p.startPos = b.Pos
	p.forcedBreak = false

	available := p.dims.ContentHeight
	if b.Height > available && b.Splittable && len(b.ItemHeights) > 0 {
		p.splitAcrossPages(b, 0)
		return
	}

	p.placements = append(p.placements, Placement{Pos: b.Pos, Height: b.Height, Type: b.Type})
	p.currentHeight = b.Height
}

// splitFit greedily keeps items from itemHeights while they fit in
// available, keeping the first item (the header) unconditionally, then
// applies the widow-correction rule of spec §4.2.3.a.
func splitFit(itemHeights []float64, available float64) (keptCount int, keptHeight float64) {
	if len(itemHeights) == 0 {
		return 0, 0
	}
	keptHeight = itemHeights[0]
	keptCount = 1
	for i := 1; i < len(itemHeights); i++ {
		if keptHeight+itemHeights[i] <= available {
			keptHeight += itemHeights[i]
			keptCount++
		} else {
			break
		}
	}

	overflowCount := len(itemHeights) - keptCount
	if overflowCount == 1 && keptCount > 2 {
		keptCount--
		keptHeight -= itemHeights[keptCount]
	}
	return keptCount, keptHeight
}

// splitAcrossPages runs the multi-page split loop (spec §4.2.3.d) for a
// splittable block whose remaining items don't fit on the current page.
// skipItems is the count already placed (possibly 0 for a wholly oversized
// block starting fresh on its own page).
func (p *pagePacker) splitAcrossPages(b BlockMeasurement, skipItems int) {
	items := b.ItemHeights
	idx := skipItems
	firstSlice := skipItems == 0

	for idx < len(items) {
		available := p.dims.ContentHeight
		height := 0.0

		if b.Type == domain.KindTable && !firstSlice && b.HasMinHeight {
			height += b.MinHeight
		}

		placed := 0
		for idx+placed < len(items) {
			next := items[idx+placed]
			if height+next > available && placed > 0 {
				break
			}
			height += next
			placed++
			if height > available && placed == 1 {
				break
			}
		}
		if placed == 0 {
			placed = 1
			height += items[idx]
		}

		p.placements = append(p.placements, Placement{Pos: b.Pos, Height: height, Type: b.Type})
		p.currentHeight = height
		idx += placed
		firstSlice = false

		if idx < len(items) {
			p.finalizePage(b.Pos, false)
			p.startPos = b.Pos
			p.forcedBreak = false
		}
	}
}

// applyOrphanGuard pops a trailing short paragraph so it is retried on the
// next page, per spec §4.2.3.b: the current page is closed without it and
// the next page opens with it. A short paragraph that is the page's only
// placement stays where it is.
func (p *pagePacker) applyOrphanGuard() {
	if len(p.placements) == 0 {
		return
	}
	last := p.placements[len(p.placements)-1]
	if last.Type != domain.KindParagraph {
		return
	}
	lineHeight := p.defaultLineHeight
	if lineHeight <= 0 {
		lineHeight = 14
	}
	threshold := 2 * lineHeight
	if last.Height < threshold && len(p.placements) > 1 {
		p.placements = p.placements[:len(p.placements)-1]
		p.currentHeight -= last.Height
		p.finalizePage(last.Pos, false)
		p.startPos, p.forcedBreak = last.Pos, false
		p.placements = append(p.placements, last)
		p.currentHeight = last.Height
	}
}

func (p *pagePacker) finalizePage(endPos uint64, force bool) {
	if len(p.placements) == 0 && !force {
		return
	}
	p.pages = append(p.pages, PageBoundary{
		PageNumber:    p.pageNum,
		StartPos:      p.startPos,
		EndPos:        endPos,
		ContentHeight: p.currentHeight,
		ForcedBreak:   p.forcedBreak,
		NodePositions: p.placements,
	})
	p.pageNum++
	p.placements = nil
	p.currentHeight = 0
}
