package render

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/pagination"
)

// RenderPaginated renders a document tree to PDF following a precomputed
// PaginationModel: one gofpdf page per PageBoundary, with placements drawn
// top to bottom inside each page's content area. This is the PDF entry
// point used once the pagination core has decided where page boundaries
// fall.
func (r *PDFRenderer) RenderPaginated(tree pagination.Node, model *pagination.PaginationModel, options domain.PrintOptions) ([]byte, error) {
	if model == nil || len(model.Pages) == 0 {
		return nil, fmt.Errorf("render: empty pagination model")
	}

	orientation := string(options.Page.Orientation)
	if orientation == "" {
		orientation = "portrait"
	}
	pageSize := string(options.Page.Size.Name)
	if pageSize == "" {
		pageSize = "A4"
	}

	pdf := gofpdf.New(orientation, "pt", pageSize, "")
	pdf.SetTitle("Generated Document", false)
	pdf.SetAuthor("Print Service", false)
	pdf.SetCreator("Pure Go Print Service", false)

	children := tree.Children()
	byPos := make(map[uint64]pagination.Node, len(children))
	for _, child := range children {
		byPos[child.Pos()] = child
	}

	marginLeft := model.Dimensions.Margins.Left
	marginTop := model.Dimensions.Margins.Top + model.Dimensions.HeaderHeight
	ctx := RenderContext{PDF: pdf}

	for _, page := range model.Pages {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 11)
		y := marginTop

		for _, placement := range page.NodePositions {
			if placement.IsPageBreak {
				continue
			}
			node, ok := byPos[placement.Pos]
			if !ok {
				y += placement.Height
				continue
			}
			bounds := domain.Box{X: marginLeft, Y: y, Width: model.Dimensions.ContentWidth, Height: placement.Height}
			style := node.Attrs().Style
			if style.Background.Color.A > 0 {
				r.renderBackground(style.Background, bounds, ctx)
			}
			if style.Border.Width > 0 {
				r.renderBorder(style.Border, bounds, ctx)
			}
			r.renderPlacement(pdf, node, placement, style, marginLeft, y)
			y += placement.Height
		}
	}

	var buf strings.Builder
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate paginated PDF: %w", err)
	}
	return []byte(buf.String()), nil
}

func (r *PDFRenderer) renderPlacement(pdf *gofpdf.Fpdf, node pagination.Node, placement pagination.Placement, style domain.NodeStyle, x, y float64) {
	size := 11.0
	family := "Arial"
	weight := style.FontWeight
	switch placement.Type {
	case domain.KindHeading:
		size = 14
		if weight == 0 {
			weight = 700
		}
	case domain.KindCodeBlock:
		family = "Courier"
		size = 10
	}
	if style.FontFamily != "" {
		family = r.mapFontFamily(style.FontFamily)
	}
	pdf.SetFont(family, r.mapFontStyle(weight, style.FontStyle), size)

	text := node.TextContent()
	if text == "" {
		return
	}
	pdf.Text(x, y+12, text)
}
