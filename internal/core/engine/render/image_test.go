package render

import (
	"bytes"
	"image/png"
	"testing"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/pagination"
)

func TestFindPageReturnsMatchingPage(t *testing.T) {
	model := simpleModel(pagination.PageDimensions{},
		pagination.PageBoundary{PageNumber: 1},
		pagination.PageBoundary{PageNumber: 2},
	)
	page := findPage(model, 2)
	if page == nil || page.PageNumber != 2 {
		t.Fatalf("findPage(2) = %+v, want page 2", page)
	}
}

func TestFindPageMissingReturnsNil(t *testing.T) {
	model := simpleModel(pagination.PageDimensions{}, pagination.PageBoundary{PageNumber: 1})
	if got := findPage(model, 99); got != nil {
		t.Errorf("findPage(99) = %+v, want nil", got)
	}
}

func TestFindPageNilModel(t *testing.T) {
	if got := findPage(nil, 1); got != nil {
		t.Errorf("findPage(nil) = %+v, want nil", got)
	}
}

func TestRenderPageThumbnailProducesDecodablePNG(t *testing.T) {
	r := NewImageRenderer(ImageRenderOptions{Antialias: true})
	dims := pagination.PageDimensions{
		Width: 600, Height: 800,
		ContentWidth: 500, ContentHeight: 700,
		Margins: pagination.Margins{Top: 50, Left: 50},
	}
	tree := &fakeNode{kind: domain.KindParagraph, children: []pagination.Node{
		&fakeNode{kind: domain.KindParagraph, text: "hello"},
	}}
	model := simpleModel(dims, pagination.PageBoundary{
		PageNumber: 1,
		NodePositions: []pagination.Placement{
			{Pos: 0, Height: 40, Type: domain.KindParagraph},
		},
	})

	png1, err := r.RenderPageThumbnail(tree, model, 1, 0.5)
	if err != nil {
		t.Fatalf("RenderPageThumbnail() error: %v", err)
	}
	if len(png1) == 0 {
		t.Fatalf("RenderPageThumbnail() returned no bytes")
	}
	img, err := png.Decode(bytes.NewReader(png1))
	if err != nil {
		t.Fatalf("decoding produced PNG failed: %v", err)
	}
	bounds := img.Bounds()
	wantW := int(dims.Width * 0.5)
	wantH := int(dims.Height * 0.5)
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		t.Errorf("decoded image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantW, wantH)
	}
}

func TestRenderPageThumbnailDefaultsScaleWhenNonPositive(t *testing.T) {
	r := NewImageRenderer(ImageRenderOptions{})
	dims := pagination.PageDimensions{Width: 400, Height: 400}
	model := simpleModel(dims, pagination.PageBoundary{PageNumber: 1})

	png1, err := r.RenderPageThumbnail(&fakeNode{}, model, 1, 0)
	if err != nil {
		t.Fatalf("RenderPageThumbnail() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(png1))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	wantW := int(400 * 0.25)
	if img.Bounds().Dx() != wantW {
		t.Errorf("width = %d, want %d (default 0.25 scale)", img.Bounds().Dx(), wantW)
	}
}

func TestRenderPageThumbnailMissingPageErrors(t *testing.T) {
	r := NewImageRenderer(ImageRenderOptions{})
	model := simpleModel(pagination.PageDimensions{Width: 10, Height: 10}, pagination.PageBoundary{PageNumber: 1})
	if _, err := r.RenderPageThumbnail(&fakeNode{}, model, 5, 1); err == nil {
		t.Errorf("RenderPageThumbnail() error = nil, want error for missing page")
	}
}

func TestExportPNGRoundTrips(t *testing.T) {
	r := NewImageRenderer(ImageRenderOptions{})
	canvas := newTestCanvas(20, 10)
	data, err := r.ExportPNG(canvas)
	if err != nil {
		t.Fatalf("ExportPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("decoded size = %dx%d, want 20x10", img.Bounds().Dx(), img.Bounds().Dy())
	}
}
