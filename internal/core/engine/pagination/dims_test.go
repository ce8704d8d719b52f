package pagination

import "testing"

func TestDeriveDimensions(t *testing.T) {
	tests := []struct {
		name        string
		size        PageSizeTag
		orientation Orientation
		margins     Margins
		header      float64
		footer      float64
		wantWidth   float64
		wantHeight  float64
		wantErr     bool
	}{
		{
			name:        "a4 portrait no margins",
			size:        PageSizeA4,
			orientation: OrientationPortrait,
			margins:     Margins{},
			wantWidth:   595.28,
			wantHeight:  841.89,
		},
		{
			name:        "a4 landscape swaps dimensions",
			size:        PageSizeA4,
			orientation: OrientationLandscape,
			margins:     Margins{},
			wantWidth:   841.89,
			wantHeight:  595.28,
		},
		{
			name:        "letter with uniform margins",
			size:        PageSizeLetter,
			orientation: OrientationPortrait,
			margins:     Margins{Top: 72, Right: 72, Bottom: 72, Left: 72},
			wantWidth:   612.00,
			wantHeight:  792.00,
		},
		{
			name:        "unknown size tag falls back to a4",
			size:        PageSizeTag("unknown"),
			orientation: OrientationPortrait,
			margins:     Margins{},
			wantWidth:   595.28,
			wantHeight:  841.89,
		},
		{
			name:        "margins exceeding page size is an error",
			size:        PageSizeA5,
			orientation: OrientationPortrait,
			margins:     Margins{Top: 400, Bottom: 400},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DeriveDimensions(tt.size, tt.orientation, tt.margins, tt.header, tt.footer)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DeriveDimensions() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveDimensions() unexpected error: %v", err)
			}
			if d.Width != tt.wantWidth || d.Height != tt.wantHeight {
				t.Errorf("dims = (%v, %v), want (%v, %v)", d.Width, d.Height, tt.wantWidth, tt.wantHeight)
			}
			wantContentWidth := d.Width - tt.margins.Left - tt.margins.Right
			wantContentHeight := d.Height - tt.margins.Top - tt.margins.Bottom - tt.header - tt.footer
			if d.ContentWidth != wantContentWidth {
				t.Errorf("ContentWidth = %v, want %v", d.ContentWidth, wantContentWidth)
			}
			if d.ContentHeight != wantContentHeight {
				t.Errorf("ContentHeight = %v, want %v", d.ContentHeight, wantContentHeight)
			}
		})
	}
}

func TestDefaultPaginationConfig(t *testing.T) {
	cfg := DefaultPaginationConfig()

	if cfg.PageSize != PageSizeA4 {
		t.Errorf("PageSize = %v, want A4", cfg.PageSize)
	}
	if cfg.Orientation != OrientationPortrait {
		t.Errorf("Orientation = %v, want portrait", cfg.Orientation)
	}
	if cfg.Margins != (Margins{Top: 72, Right: 72, Bottom: 72, Left: 72}) {
		t.Errorf("Margins = %+v, want uniform 72pt", cfg.Margins)
	}
	if cfg.ReflowDebounceMs != 100 {
		t.Errorf("ReflowDebounceMs = %d, want 100", cfg.ReflowDebounceMs)
	}
	if cfg.WidowLines != 2 || cfg.OrphanLines != 2 {
		t.Errorf("WidowLines/OrphanLines = %d/%d, want 2/2", cfg.WidowLines, cfg.OrphanLines)
	}
	if _, err := cfg.Dimensions(); err != nil {
		t.Errorf("default config produced invalid dimensions: %v", err)
	}
}

func TestPaginationConfigReflowDebounce(t *testing.T) {
	cfg := PaginationConfig{ReflowDebounceMs: 250}
	if got := cfg.ReflowDebounce(); got.Milliseconds() != 250 {
		t.Errorf("ReflowDebounce() = %v, want 250ms", got)
	}
}

func TestConfigFromMetadata(t *testing.T) {
	base := DefaultPaginationConfig()

	tests := []struct {
		name string
		meta DocumentMetadata
		want PaginationConfig
	}{
		{
			name: "overrides page size, orientation, and margins",
			meta: DocumentMetadata{
				PageSize:    PageSizeLetter,
				Orientation: OrientationLandscape,
				Margins:     Margins{Top: 36, Right: 36, Bottom: 36, Left: 36},
			},
			want: func() PaginationConfig {
				c := base
				c.PageSize = PageSizeLetter
				c.Orientation = OrientationLandscape
				c.Margins = Margins{Top: 36, Right: 36, Bottom: 36, Left: 36}
				c.HeaderHeight = 0
				c.FooterHeight = 0
				return c
			}(),
		},
		{
			name: "header and footer presence derives fixed height",
			meta: DocumentMetadata{HasHeader: true, HasFooter: true},
			want: func() PaginationConfig {
				c := base
				c.Margins = Margins{}
				c.HeaderHeight = headerFooterHeight
				c.FooterHeight = headerFooterHeight
				return c
			}(),
		},
		{
			name: "empty page size and orientation keep base values",
			meta: DocumentMetadata{},
			want: func() PaginationConfig {
				c := base
				c.Margins = Margins{}
				c.HeaderHeight = 0
				c.FooterHeight = 0
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigFromMetadata(base, tt.meta)
			if got != tt.want {
				t.Errorf("ConfigFromMetadata() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
