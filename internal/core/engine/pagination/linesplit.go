package pagination

import (
	"sort"

	"pagecore/internal/core/domain"
)

// LineRect is a single line-level rectangle supplied by a rendering
// surface: a text node or inline element's bounding box.
type LineRect struct {
	Top    float64
	Bottom float64
}

// Line is one clustered line of a block, per spec §4.3.
type Line struct {
	Index   int
	Top     float64
	Bottom  float64
	Height  float64
	IsFirst bool
	IsLast  bool
}

// LineMeasurement is the result of measure_lines.
type LineMeasurement struct {
	LineCount        int
	Lines            []Line
	TotalHeight      float64
	SplittableAtLine bool
}

// SplitPoint is the result of calculate_split_point.
type SplitPoint struct {
	KeepLines      int
	KeepHeight     float64
	OverflowLines  int
	OverflowHeight float64
}

// lineClusterTolerancePx is the vertical tolerance used to cluster
// rectangles into a single line (spec §4.3: "2-px tolerance").
const lineClusterTolerancePx = 2.0

// LineSplitter performs line-level splitting for paragraph-like blocks
// when the hosting renderer can supply line rectangles.
type LineSplitter struct {
	widowLines  int
	orphanLines int
}

func NewLineSplitter(widowLines, orphanLines int) *LineSplitter {
	return &LineSplitter{widowLines: widowLines, orphanLines: orphanLines}
}

// MeasureLines clusters a set of rectangles (one per text node/inline
// element) by vertical position into an ordered list of lines.
func (s *LineSplitter) MeasureLines(rects []LineRect) LineMeasurement {
	if len(rects) == 0 {
		return LineMeasurement{}
	}
	sorted := make([]LineRect, len(rects))
	copy(sorted, rects)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Top < sorted[j].Top })

	var lines []Line
	cur := sorted[0]
	for i := 1; i < len(sorted); i++ {
		r := sorted[i]
		if r.Top-cur.Top <= lineClusterTolerancePx {
			if r.Bottom > cur.Bottom {
				cur.Bottom = r.Bottom
			}
			continue
		}
		lines = append(lines, Line{Top: cur.Top, Bottom: cur.Bottom, Height: cur.Bottom - cur.Top})
		cur = r
	}
	lines = append(lines, Line{Top: cur.Top, Bottom: cur.Bottom, Height: cur.Bottom - cur.Top})

	total := 0.0
	for i := range lines {
		lines[i].Index = i
		lines[i].IsFirst = i == 0
		lines[i].IsLast = i == len(lines)-1
		total += lines[i].Height
	}

	return LineMeasurement{
		LineCount:        len(lines),
		Lines:            lines,
		TotalHeight:      total,
		SplittableAtLine: len(lines) > 1,
	}
}

// CalculateSplitPoint implements spec §4.3's four-step split point
// calculation with orphan and widow constraints.
func (s *LineSplitter) CalculateSplitPoint(m LineMeasurement, availableHeight float64) SplitPoint {
	if !m.SplittableAtLine || m.LineCount <= 1 {
		if m.TotalHeight <= availableHeight {
			return SplitPoint{KeepLines: m.LineCount, KeepHeight: m.TotalHeight}
		}
		return SplitPoint{OverflowLines: m.LineCount, OverflowHeight: m.TotalHeight}
	}

	keep := 0
	keepHeight := 0.0
	for _, line := range m.Lines {
		if line.Bottom-m.Lines[0].Top <= availableHeight {
			keep++
			keepHeight += line.Height
		} else {
			break
		}
	}

	if keep > 0 && keep < s.orphanLines {
		return SplitPoint{OverflowLines: m.LineCount, OverflowHeight: m.TotalHeight}
	}

	remainder := m.LineCount - keep
	if remainder > 0 && remainder < s.widowLines {
		demote := s.widowLines - remainder
		for i := 0; i < demote && keep > 0; i++ {
			keep--
			keepHeight -= m.Lines[keep].Height
		}
		if keep > 0 && keep < s.orphanLines {
			return SplitPoint{OverflowLines: m.LineCount, OverflowHeight: m.TotalHeight}
		}
	}

	overflowHeight := m.TotalHeight - keepHeight
	return SplitPoint{
		KeepLines:      keep,
		KeepHeight:     keepHeight,
		OverflowLines:  m.LineCount - keep,
		OverflowHeight: overflowHeight,
	}
}

// IsSplittableType reports whether type is one of the line-splittable
// kinds: paragraph, listItem, blockquote.
func IsSplittableType(kind domain.NodeKind) bool {
	switch kind {
	case domain.KindParagraph, domain.KindListItem, domain.KindBlockquote:
		return true
	default:
		return false
	}
}
