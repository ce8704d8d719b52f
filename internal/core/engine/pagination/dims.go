package pagination

import "time"

// PageSizeTag names a standard page size.
type PageSizeTag string

const (
	PageSizeA4     PageSizeTag = "a4"
	PageSizeLetter PageSizeTag = "letter"
	PageSizeLegal  PageSizeTag = "legal"
	PageSizeA3     PageSizeTag = "a3"
	PageSizeA5     PageSizeTag = "a5"
)

// pageSizeDims maps a PageSizeTag to its portrait (width, height) in points
// (1pt = 1/72in). Values follow the ISO 216 / ANSI definitions used
// throughout the example pack's PDF renderers.
var pageSizeDims = map[PageSizeTag][2]float64{
	PageSizeA4:     {595.28, 841.89},
	PageSizeLetter: {612.00, 792.00},
	PageSizeLegal:  {612.00, 1008.00},
	PageSizeA3:     {841.89, 1190.55},
	PageSizeA5:     {419.53, 595.28},
}

// Orientation is portrait or landscape.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Margins are four non-negative point values.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// PageDimensions is the derived record used by the Measurer and PageComputer.
type PageDimensions struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ContentWidth  float64 `json:"contentWidth"`
	ContentHeight float64 `json:"contentHeight"`
	Margins       Margins `json:"margins"`
	HeaderHeight  float64 `json:"headerHeight"`
	FooterHeight  float64 `json:"footerHeight"`
}

// DeriveDimensions computes a PageDimensions from a size tag, orientation,
// margins, and header/footer heights, enforcing the positivity invariants of
// spec §3. Returns ErrConfigurationInvalid when the derived content area is
// non-positive.
func DeriveDimensions(size PageSizeTag, orientation Orientation, margins Margins, headerHeight, footerHeight float64) (PageDimensions, error) {
	wh, ok := pageSizeDims[size]
	if !ok {
		wh = pageSizeDims[PageSizeA4]
	}
	width, height := wh[0], wh[1]
	if orientation == OrientationLandscape {
		width, height = height, width
	}

	d := PageDimensions{
		Width:        width,
		Height:       height,
		Margins:      margins,
		HeaderHeight: headerHeight,
		FooterHeight: footerHeight,
	}
	d.ContentWidth = width - margins.Left - margins.Right
	d.ContentHeight = height - margins.Top - margins.Bottom - headerHeight - footerHeight

	if d.ContentWidth <= 0 || d.ContentHeight <= 0 {
		return PageDimensions{}, ErrConfigurationInvalid
	}
	return d, nil
}

// PaginationConfig is the full set of tunables for the core, with defaults
// matching spec §3 exactly.
type PaginationConfig struct {
	PageSize          PageSizeTag
	Orientation       Orientation
	Margins           Margins
	HeaderHeight      float64
	FooterHeight      float64
	ReflowDebounceMs  int
	WidowLines        int
	OrphanLines       int
	DefaultLineHeight float64
	PixelsPerPoint    float64
}

// DefaultPaginationConfig returns the spec-mandated defaults: A4 portrait,
// 72pt uniform margins, no header/footer, 100ms debounce, 2/2 widow/orphan
// lines, 14pt default line height, 96/72 pixels-per-point.
func DefaultPaginationConfig() PaginationConfig {
	return PaginationConfig{
		PageSize:          PageSizeA4,
		Orientation:       OrientationPortrait,
		Margins:           Margins{Top: 72, Right: 72, Bottom: 72, Left: 72},
		HeaderHeight:      0,
		FooterHeight:      0,
		ReflowDebounceMs:  100,
		WidowLines:        2,
		OrphanLines:       2,
		DefaultLineHeight: 14,
		PixelsPerPoint:    96.0 / 72.0,
	}
}

// ReflowDebounce returns the configured debounce as a time.Duration.
func (c PaginationConfig) ReflowDebounce() time.Duration {
	return time.Duration(c.ReflowDebounceMs) * time.Millisecond
}

// Dimensions derives the PageDimensions for this config.
func (c PaginationConfig) Dimensions() (PageDimensions, error) {
	return DeriveDimensions(c.PageSize, c.Orientation, c.Margins, c.HeaderHeight, c.FooterHeight)
}

// DocumentMetadata is the subset of a document's metadata that can drive
// configuration, per spec §6 ("Configuration surface (consumed)").
type DocumentMetadata struct {
	PageSize    PageSizeTag
	Orientation Orientation
	Margins     Margins
	HasHeader   bool
	HasFooter   bool
}

// headerFooterHeight is the fixed height assigned when a header/footer is
// present but the metadata does not carry an explicit height.
const headerFooterHeight = 36

// ConfigFromMetadata merges a base config with a document's metadata,
// overriding page size, orientation, margins, and deriving header/footer
// height as 36pt when present, 0 otherwise (spec §6).
func ConfigFromMetadata(base PaginationConfig, meta DocumentMetadata) PaginationConfig {
	cfg := base
	if meta.PageSize != "" {
		cfg.PageSize = meta.PageSize
	}
	if meta.Orientation != "" {
		cfg.Orientation = meta.Orientation
	}
	cfg.Margins = meta.Margins
	if meta.HasHeader {
		cfg.HeaderHeight = headerFooterHeight
	} else {
		cfg.HeaderHeight = 0
	}
	if meta.HasFooter {
		cfg.FooterHeight = headerFooterHeight
	} else {
		cfg.FooterHeight = 0
	}
	return cfg
}
