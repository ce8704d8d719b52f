package render

import (
	"strings"

	"pagecore/internal/core/domain"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer handles PDF generation with advanced rendering capabilities
type PDFRenderer struct {
	fontManager *FontManager
	imageCache  *ImageCache
	options     PDFRenderOptions
}

// PDFRenderOptions configures PDF rendering behavior and output quality
type PDFRenderOptions struct {
	Compression    bool         // Enable PDF compression
	EmbedFonts     bool         // Embed fonts in PDF
	OptimizeImages bool         // Optimize embedded images
	ColorProfile   ColorProfile // Color profile for output
	OutputIntent   OutputIntent // PDF output intent
	PDFVersion     string       // PDF version (e.g., "1.4", "1.7")
}

// ColorProfile represents color profiles for PDF output
type ColorProfile string

const (
	ColorProfileRGB  ColorProfile = "RGB"  // RGB color space
	ColorProfileCMYK ColorProfile = "CMYK" // CMYK color space for print
	ColorProfileGray ColorProfile = "Gray" // Grayscale color space
)

// OutputIntent represents PDF output intent for color management
type OutputIntent struct {
	Type         string // Output intent type
	Identifier   string // Unique identifier
	Condition    string // Human-readable condition
	Info         string // Additional information
	RegistryName string // Registry name
}

// RenderContext provides rendering context for PDF generation
type RenderContext struct {
	PDF         *gofpdf.Fpdf // PDF document instance
	CurrentPage int          // Current page number
	PageWidth   float64      // Page width in mm
	PageHeight  float64      // Page height in mm
	DPI         float64      // Dots per inch
	Scale       float64      // Scaling factor
}

// NewPDFRenderer creates a new PDF renderer with specified options
func NewPDFRenderer(opts PDFRenderOptions) *PDFRenderer {
	return &PDFRenderer{
		fontManager: NewFontManager(),
		imageCache:  NewImageCache(),
		options:     opts,
	}
}

// renderBackground renders element background with color and transparency support
func (r *PDFRenderer) renderBackground(bg domain.Background, bounds domain.Box, ctx RenderContext) error {
	if bg.Color.A == 0 {
		return nil // Skip transparent backgrounds
	}

	// Configure background fill color from RGBA values
	red := float64(bg.Color.R) / 255.0   // Normalize red component
	green := float64(bg.Color.G) / 255.0 // Normalize green component
	blue := float64(bg.Color.B) / 255.0  // Normalize blue component
	ctx.PDF.SetFillColor(int(red*255), int(green*255), int(blue*255))

	// Draw filled rectangle for background
	ctx.PDF.Rect(bounds.X, bounds.Y, bounds.Width, bounds.Height, "F")

	return nil
}

// renderBorder renders element border with support for different styles and colors
func (r *PDFRenderer) renderBorder(border domain.BorderStyle, bounds domain.Box, ctx RenderContext) error {
	if border.Width <= 0 {
		return nil // Skip borders with zero width
	}

	// Configure border line width
	ctx.PDF.SetLineWidth(border.Width)

	// Configure border color from RGBA values
	red := float64(border.Color.R) / 255.0   // Normalize red component
	green := float64(border.Color.G) / 255.0 // Normalize green component
	blue := float64(border.Color.B) / 255.0  // Normalize blue component
	ctx.PDF.SetDrawColor(int(red*255), int(green*255), int(blue*255))

	// Render border based on specified style
	switch border.Style {
	case domain.BorderSolid:
		// Draw solid border rectangle
		ctx.PDF.Rect(bounds.X, bounds.Y, bounds.Width, bounds.Height, "D")
	case domain.BorderDashed:
		// Configure and draw dashed border
		ctx.PDF.SetDashPattern([]float64{5, 3}, 0) // 5pt dash, 3pt gap
		ctx.PDF.Rect(bounds.X, bounds.Y, bounds.Width, bounds.Height, "D")
		ctx.PDF.SetDashPattern([]float64{}, 0) // Reset to solid
	case domain.BorderDotted:
		// Configure and draw dotted border
		ctx.PDF.SetDashPattern([]float64{1, 2}, 0) // 1pt dot, 2pt gap
		ctx.PDF.Rect(bounds.X, bounds.Y, bounds.Width, bounds.Height, "D")
		ctx.PDF.SetDashPattern([]float64{}, 0) // Reset to solid
	}

	return nil
}

// mapFontFamily maps CSS font family names to PDF-compatible font families
func (r *PDFRenderer) mapFontFamily(family string) string {
	family = strings.ToLower(family)
	switch {
	case strings.Contains(family, "sans-serif"):
		return "Arial" // Arial for sans-serif fonts
	case strings.Contains(family, "serif"):
		return "Times" // Times New Roman for serif fonts
	case strings.Contains(family, "monospace"):
		return "Courier" // Courier for monospace fonts
	default:
		return "Arial" // Default fallback font
	}
}

// mapFontStyle maps CSS font weight and style to PDF font style codes
func (r *PDFRenderer) mapFontStyle(weight int, style string) string {
	bold := weight >= 700                        // Bold if weight >= 700
	italic := strings.ToLower(style) == "italic" // Italic if style is italic

	// Combine bold and italic styles
	switch {
	case bold && italic:
		return "BI" // Bold + Italic
	case bold:
		return "B" // Bold only
	case italic:
		return "I" // Italic only
	default:
		return "" // Regular style
	}
}

// FontManager manages font resources and font loading for PDF rendering
type FontManager struct {
	fonts map[string]FontInfo // Map of font name to font information
}

// FontInfo represents detailed information about a font resource
type FontInfo struct {
	Family string // Font family name (e.g., "Arial", "Times")
	Style  string // Font style (e.g., "B", "I", "BI")
	Path   string // Path to font file (for custom fonts)
}

// NewFontManager creates a new font manager with initialized font registry
func NewFontManager() *FontManager {
	return &FontManager{
		fonts: make(map[string]FontInfo),
	}
}

// ImageCache manages caching of images for efficient PDF rendering
type ImageCache struct {
	cache map[string][]byte // Map of image URL/hash to image data
}

// NewImageCache creates a new image cache with initialized storage
func NewImageCache() *ImageCache {
	return &ImageCache{
		cache: make(map[string][]byte),
	}
}
