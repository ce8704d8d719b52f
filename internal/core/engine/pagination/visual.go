package pagination

// Spacer pushes content in a continuous scroll surface so a page's first
// block aligns with the top of that page's content area.
type Spacer struct {
	AtPos            uint64
	HeightPx         float64
	PageNumberBefore int
}

// BuildVisualModel is a pure function over a PaginationModel and layout
// params, per spec §4.6. pageGapPx separates consecutive pages visually;
// topMarginPx is the offset before the first page's content.
func BuildVisualModel(model *PaginationModel, pageGapPx, topMarginPx float64) []Spacer {
	if model == nil || len(model.Pages) == 0 {
		return nil
	}

	spacers := make([]Spacer, 0, len(model.Pages))
	spacers = append(spacers, Spacer{
		AtPos:            model.Pages[0].StartPos,
		HeightPx:         topMarginPx,
		PageNumberBefore: 0,
	})

	for i := 1; i < len(model.Pages); i++ {
		spacers = append(spacers, Spacer{
			AtPos:            model.Pages[i].StartPos,
			HeightPx:         pageGapPx,
			PageNumberBefore: model.Pages[i-1].PageNumber,
		})
	}

	return spacers
}
