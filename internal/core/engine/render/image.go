package render

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/pagination"

	"github.com/fogleman/gg"
)

// ImageRenderer handles image generation
type ImageRenderer struct {
	fontManager *FontManager
	options     ImageRenderOptions
}

// ImageRenderOptions configures image rendering
type ImageRenderOptions struct {
	Antialias     bool
	Interpolation InterpolationType
	ColorSpace    ColorSpace
	Quality       int
	Optimization  bool
}

// InterpolationType represents image interpolation types
type InterpolationType int

const (
	InterpolationNone InterpolationType = iota
	InterpolationLinear
	InterpolationBilinear
	InterpolationBicubic
)

// ColorSpace represents color space for image rendering
type ColorSpace string

const (
	ColorSpaceRGB  ColorSpace = "RGB"
	ColorSpaceCMYK ColorSpace = "CMYK"
	ColorSpaceGray ColorSpace = "Gray"
)

// ImageRenderContext provides context for image rendering
type ImageRenderContext struct {
	Canvas     *gg.Context
	Width      int
	Height     int
	DPI        float64
	Scale      float64
	Background domain.Color
}

// NewImageRenderer creates a new image renderer
func NewImageRenderer(opts ImageRenderOptions) *ImageRenderer {
	return &ImageRenderer{
		fontManager: NewFontManager(),
		options:     opts,
	}
}

// RenderPageThumbnail rasterizes one page of a PaginationModel as a PNG:
// a scaled white page with each placement drawn as an outlined block (plus
// its background and border, if styled), for the virtualized-scroll
// thumbnail rail rather than print-quality output.
func (r *ImageRenderer) RenderPageThumbnail(tree pagination.Node, model *pagination.PaginationModel, pageNumber int, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 0.25
	}
	page := findPage(model, pageNumber)
	if page == nil {
		return nil, fmt.Errorf("render: page %d not found", pageNumber)
	}

	width := int(model.Dimensions.Width * scale)
	height := int(model.Dimensions.Height * scale)
	canvas := gg.NewContext(width, height)
	canvas.SetRGB(1, 1, 1)
	canvas.Clear()
	if r.options.Antialias {
		canvas.SetLineCapRound()
		canvas.SetLineJoinRound()
	}
	ctx := ImageRenderContext{Canvas: canvas, Width: width, Height: height, Scale: scale}

	children := tree.Children()
	byPos := make(map[uint64]pagination.Node, len(children))
	for _, child := range children {
		byPos[child.Pos()] = child
	}

	y := model.Dimensions.Margins.Top
	for _, placement := range page.NodePositions {
		if placement.IsPageBreak {
			continue
		}
		bounds := domain.Box{
			X:      model.Dimensions.Margins.Left,
			Y:      y,
			Width:  model.Dimensions.ContentWidth,
			Height: placement.Height,
		}
		style := domain.NodeStyle{}
		if node, ok := byPos[placement.Pos]; ok {
			style = node.Attrs().Style
		}
		if style.Background.Color.A > 0 {
			r.RenderBackground(style.Background, bounds, ctx)
		}
		r.drawBlockOutline(bounds, ctx)
		if style.Border.Width > 0 {
			r.renderBorder(style.Border, bounds, ctx)
		}
		y += placement.Height
	}

	return r.ExportPNG(canvas)
}

func findPage(model *pagination.PaginationModel, pageNumber int) *pagination.PageBoundary {
	if model == nil {
		return nil
	}
	for i := range model.Pages {
		if model.Pages[i].PageNumber == pageNumber {
			return &model.Pages[i]
		}
	}
	return nil
}

// drawBlockOutline draws a light gray outline around a block's bounds, so
// every placement reads as a distinct region even with no explicit border.
func (r *ImageRenderer) drawBlockOutline(bounds domain.Box, ctx ImageRenderContext) {
	ctx.Canvas.SetRGBA(0.7, 0.7, 0.7, 1)
	ctx.Canvas.SetLineWidth(0.5)
	ctx.Canvas.DrawRectangle(bounds.X*ctx.Scale, bounds.Y*ctx.Scale, bounds.Width*ctx.Scale, bounds.Height*ctx.Scale)
	ctx.Canvas.Stroke()
}

// RenderBackground renders background styling
func (r *ImageRenderer) RenderBackground(bg domain.Background, bounds domain.Box, ctx ImageRenderContext) error {
	if bg.Color.A == 0 {
		return nil // Transparent background
	}

	// Set fill color
	red := float64(bg.Color.R) / 255.0
	green := float64(bg.Color.G) / 255.0
	blue := float64(bg.Color.B) / 255.0
	alpha := float64(bg.Color.A) / 255.0
	ctx.Canvas.SetRGBA(red, green, blue, alpha)

	// Draw rectangle
	x := bounds.X * ctx.Scale
	y := bounds.Y * ctx.Scale
	width := bounds.Width * ctx.Scale
	height := bounds.Height * ctx.Scale

	ctx.Canvas.DrawRectangle(x, y, width, height)
	ctx.Canvas.Fill()

	return nil
}

// renderBorder renders border styling
func (r *ImageRenderer) renderBorder(border domain.BorderStyle, bounds domain.Box, ctx ImageRenderContext) error {
	if border.Width <= 0 {
		return nil
	}

	// Set line width
	ctx.Canvas.SetLineWidth(border.Width * ctx.Scale)

	// Set border color
	red := float64(border.Color.R) / 255.0
	green := float64(border.Color.G) / 255.0
	blue := float64(border.Color.B) / 255.0
	alpha := float64(border.Color.A) / 255.0
	ctx.Canvas.SetRGBA(red, green, blue, alpha)

	// Calculate bounds
	x := bounds.X * ctx.Scale
	y := bounds.Y * ctx.Scale
	width := bounds.Width * ctx.Scale
	height := bounds.Height * ctx.Scale

	// Draw border based on style
	switch border.Style {
	case domain.BorderSolid:
		ctx.Canvas.DrawRectangle(x, y, width, height)
		ctx.Canvas.Stroke()
	case domain.BorderDashed:
		r.drawDashedRectangle(ctx.Canvas, x, y, width, height, []float64{10, 5})
	case domain.BorderDotted:
		r.drawDashedRectangle(ctx.Canvas, x, y, width, height, []float64{2, 3})
	}

	return nil
}

// drawDashedRectangle draws a dashed rectangle
func (r *ImageRenderer) drawDashedRectangle(canvas *gg.Context, x, y, width, height float64, pattern []float64) {
	// Top edge
	r.drawDashedLine(canvas, x, y, x+width, y, pattern)
	// Right edge
	r.drawDashedLine(canvas, x+width, y, x+width, y+height, pattern)
	// Bottom edge
	r.drawDashedLine(canvas, x+width, y+height, x, y+height, pattern)
	// Left edge
	r.drawDashedLine(canvas, x, y+height, x, y, pattern)
}

// drawDashedLine draws a dashed line
func (r *ImageRenderer) drawDashedLine(canvas *gg.Context, x1, y1, x2, y2 float64, pattern []float64) {
	if len(pattern) == 0 {
		canvas.DrawLine(x1, y1, x2, y2)
		canvas.Stroke()
		return
	}

	// Simplified dashed line implementation
	totalLength := ((x2-x1)*(x2-x1) + (y2-y1)*(y2-y1))
	if totalLength <= 0 {
		return
	}

	// For simplicity, just draw a regular line
	// In a full implementation, this would properly handle dash patterns
	canvas.DrawLine(x1, y1, x2, y2)
	canvas.Stroke()
}

// ExportPNG exports the canvas as PNG
func (r *ImageRenderer) ExportPNG(canvas *gg.Context) ([]byte, error) {
	img := canvas.Image()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportJPEG exports the canvas as JPEG
func (r *ImageRenderer) ExportJPEG(canvas *gg.Context, quality int) ([]byte, error) {
	img := canvas.Image()

	var buf bytes.Buffer
	options := &jpeg.Options{Quality: quality}
	if err := jpeg.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return buf.Bytes(), nil
}

