package pagination

import (
	"hash/fnv"
	"math"
	"time"

	"pagecore/internal/core/domain"
)

// RendererProbe is the optional live rendering surface a Measurer can query
// for an already-laid-out box height, in pixels. A host that has no such
// surface attached (headless export, pre-mount SSR) simply never calls
// SetProbe, and the Measurer falls back to estimation for every block.
type RendererProbe interface {
	// BoxHeightPx returns the rendered height in pixels of the element at
	// pos, and false if no such handle exists.
	BoxHeightPx(pos uint64) (float64, bool)
	// Flush forces one layout pass so that subsequently queried heights
	// reflect the current DOM, used by measure_batch to avoid repeated
	// thrash when probing many misses at once.
	Flush()
}

// Measurer produces BlockMeasurements for the top-level blocks of a
// document tree, preferring a live RendererProbe and falling back to the
// literal content-based estimation formulas of spec §4.1.
type Measurer struct {
	cache *measurementCache
	dims  PageDimensions
	cfg   PaginationConfig
	probe RendererProbe
}

// NewMeasurer builds a Measurer for the given dimensions and config. The
// cache starts empty; maxCacheSize follows PaginationConfig conventions
// (500 by default, matching the example pack's object-cache sizing).
func NewMeasurer(dims PageDimensions, cfg PaginationConfig, maxCacheSize int) *Measurer {
	return &Measurer{
		cache: newMeasurementCache(maxCacheSize),
		dims:  dims,
		cfg:   cfg,
	}
}

// SetProbe attaches (or detaches, with nil) a rendering surface.
func (m *Measurer) SetProbe(probe RendererProbe) {
	m.probe = probe
}

// SetDimensions replaces the page dimensions used for estimation and clears
// the cache, since every estimate formula depends on contentWidth.
func (m *Measurer) SetDimensions(d PageDimensions) {
	m.dims = d
	m.cache.clear()
}

func (m *Measurer) InvalidateRange(from, to uint64) {
	m.cache.invalidateRange(from, to)
}

func (m *Measurer) ClearCache() {
	m.cache.clear()
}

func (m *Measurer) CacheStats() CacheStats {
	return m.cache.stats()
}

// MeasureDocument walks the top-level children of tree in document order,
// measuring each at the position its own Node.Pos reports (spec §6's
// document-linear position space), not its sibling index.
func (m *Measurer) MeasureDocument(tree Node) []BlockMeasurement {
	children := tree.Children()
	out := make([]BlockMeasurement, 0, len(children))
	for _, child := range children {
		out = append(out, m.MeasureNode(child, child.Pos()))
	}
	return out
}

// MeasureNode is the single-block entry point.
func (m *Measurer) MeasureNode(node Node, pos uint64) BlockMeasurement {
	kind := node.Kind()
	if kind == domain.KindPageBreak {
		return BlockMeasurement{Pos: pos, Type: kind, Height: 0, Splittable: false}
	}

	hash := contentHash(node)
	now := time.Now()
	if height, ok := m.cache.lookup(pos, hash, now); ok {
		return m.toMeasurement(node, pos, height)
	}

	height := m.measureHeight(node, pos)
	m.cache.store(pos, height, hash, now)
	return m.toMeasurement(node, pos, height)
}

// MeasureBatch processes requests in two phases: a cache probe pass, then
// for every miss a single probe flush followed by per-node queries. This
// mirrors spec §4.1's layout-thrash avoidance.
func (m *Measurer) MeasureBatch(nodes []Node, positions []uint64) []BlockMeasurement {
	out := make([]BlockMeasurement, len(nodes))
	misses := make([]int, 0, len(nodes))
	now := time.Now()

	for i, node := range nodes {
		if node.Kind() == domain.KindPageBreak {
			out[i] = BlockMeasurement{Pos: positions[i], Type: domain.KindPageBreak, Height: 0, Splittable: false}
			continue
		}
		hash := contentHash(node)
		if height, ok := m.cache.lookup(positions[i], hash, now); ok {
			out[i] = m.toMeasurement(node, positions[i], height)
			continue
		}
		misses = append(misses, i)
	}

	if len(misses) > 0 && m.probe != nil {
		m.probe.Flush()
	}
	for _, i := range misses {
		height := m.measureHeight(nodes[i], positions[i])
		m.cache.store(positions[i], height, contentHash(nodes[i]), now)
		out[i] = m.toMeasurement(nodes[i], positions[i], height)
	}
	return out
}

func (m *Measurer) toMeasurement(node Node, pos uint64, height float64) BlockMeasurement {
	kind := node.Kind()
	bm := BlockMeasurement{
		Pos:    pos,
		Type:   kind,
		Height: height,
	}
	if isSplittable(kind) {
		bm.Splittable = true
		items := itemHeights(node, m.dims, m.cfg)
		bm.ItemHeights = items
		if kind == domain.KindTable {
			bm.MinHeight = tableRowHeight
			bm.HasMinHeight = true
		} else if len(items) > 0 {
			bm.MinHeight = items[0]
			bm.HasMinHeight = true
		}
	}
	return bm
}

// measureHeight tries the renderer probe first, falling back to
// estimation transparently on any miss or failure.
func (m *Measurer) measureHeight(node Node, pos uint64) float64 {
	if m.probe != nil {
		if px, ok := m.probe.BoxHeightPx(pos); ok {
			ppp := m.cfg.PixelsPerPoint
			if ppp <= 0 {
				ppp = 1
			}
			return px / ppp
		}
	}
	return estimateHeight(node, m.dims, m.cfg)
}

func isSplittable(kind domain.NodeKind) bool {
	switch kind {
	case domain.KindTable, domain.KindBulletList, domain.KindOrderedList:
		return true
	default:
		return false
	}
}

const tableRowHeight = 30

// estimateHeight dispatches on block type per the literal formula table of
// spec §4.1.
func estimateHeight(node Node, dims PageDimensions, cfg PaginationConfig) float64 {
	switch node.Kind() {
	case domain.KindParagraph, domain.KindText:
		return estimateParagraph(node.TextContent(), dims, cfg)
	case domain.KindHeading:
		return estimateHeading(node, dims)
	case domain.KindCodeBlock:
		return estimateCodeBlock(node.TextContent())
	case domain.KindBlockquote:
		return estimateChildrenSum(node, dims, cfg) + 16
	case domain.KindBulletList, domain.KindOrderedList:
		sum := 0.0
		for _, h := range itemHeights(node, dims, cfg) {
			sum += h
		}
		return sum
	case domain.KindTable:
		rowCount := len(node.Children())
		return float64(rowCount)*tableRowHeight + 4
	case domain.KindImage:
		h := node.Attrs().ImageHeight
		if h > 0 {
			ppp := cfg.PixelsPerPoint
			if ppp <= 0 {
				ppp = 1
			}
			return h / ppp
		}
		return 200
	case domain.KindHorizontalRule:
		return 20
	case domain.KindPageBreak:
		return 0
	default:
		return estimateParagraph(node.TextContent(), dims, cfg)
	}
}

func estimateParagraph(text string, dims PageDimensions, cfg PaginationConfig) float64 {
	charsPerLine := math.Floor(dims.ContentWidth / 7)
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lines := math.Ceil(float64(len([]rune(text))) / charsPerLine)
	return lines*cfg.DefaultLineHeight + 12
}

func estimateHeading(node Node, dims PageDimensions) float64 {
	level := node.Attrs().HeadingLevel
	if level < 1 {
		level = 1
	}
	fontSize := math.Max(12, 28-4*float64(level))
	charsPerLine := dims.ContentWidth / (fontSize * 0.6)
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	text := node.TextContent()
	lines := math.Ceil(float64(len([]rune(text))) / charsPerLine)
	if lines < 1 {
		lines = 1
	}
	return lines*(fontSize*1.2) + fontSize*0.8
}

func estimateCodeBlock(text string) float64 {
	newlines := 0
	for _, r := range text {
		if r == '\n' {
			newlines++
		}
	}
	return float64(newlines+1)*16 + 24
}

func estimateChildrenSum(node Node, dims PageDimensions, cfg PaginationConfig) float64 {
	sum := 0.0
	for _, child := range node.Children() {
		sum += estimateHeight(child, dims, cfg)
	}
	return sum
}

// itemHeights computes per-row (table) or per-item (list) estimates: each
// item is max(sum of child estimates, defaultLineHeight).
func itemHeights(node Node, dims PageDimensions, cfg PaginationConfig) []float64 {
	children := node.Children()
	out := make([]float64, len(children))
	for i, child := range children {
		if node.Kind() == domain.KindTable {
			out[i] = tableRowHeight
			continue
		}
		sum := estimateChildrenSum(child, dims, cfg)
		if sum < cfg.DefaultLineHeight {
			sum = cfg.DefaultLineHeight
		}
		out[i] = sum
	}
	return out
}

// contentHash derives the cache invalidation key from (type, childCount,
// textLength, first 50 chars of text), per spec §3.
func contentHash(node Node) uint64 {
	h := fnv.New64a()
	h.Write([]byte(node.Kind()))
	text := node.TextContent()
	runes := []rune(text)
	prefixLen := 50
	if len(runes) < prefixLen {
		prefixLen = len(runes)
	}
	h.Write([]byte{byte(len(node.Children()))})
	h.Write([]byte{byte(len(runes)), byte(len(runes) >> 8)})
	h.Write([]byte(string(runes[:prefixLen])))
	return h.Sum64()
}
