package tree

import (
	"testing"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/html"
)

func elem(tag string, attrs map[string]string, children ...*html.DOMNode) *html.DOMNode {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &html.DOMNode{
		Type:       html.ElementNode,
		Data:       tag,
		Attributes: attrs,
		Children:   children,
	}
}

func textNode(text string) *html.DOMNode {
	return &html.DOMNode{Type: html.TextNode, Data: text}
}

func TestClassifyBlockTags(t *testing.T) {
	tests := []struct {
		tag  string
		want domain.NodeKind
	}{
		{"p", domain.KindParagraph},
		{"h1", domain.KindHeading},
		{"h6", domain.KindHeading},
		{"pre", domain.KindCodeBlock},
		{"blockquote", domain.KindBlockquote},
		{"ul", domain.KindBulletList},
		{"ol", domain.KindOrderedList},
		{"table", domain.KindTable},
		{"img", domain.KindImage},
		{"hr", domain.KindHorizontalRule},
		{"br", domain.KindHardBreak},
		{"page-break", domain.KindPageBreak},
		{"span", domain.KindParagraph}, // unknown tag falls back to paragraph
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			a := NewAdapter(elem(tt.tag, nil))
			if got := a.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyTextNode(t *testing.T) {
	a := NewAdapter(textNode("hello"))
	if got := a.Kind(); got != domain.KindText {
		t.Errorf("Kind() = %v, want text", got)
	}
	if !a.IsText() {
		t.Errorf("IsText() = false, want true")
	}
}

func TestClassifyForcedBreakViaInlineStyle(t *testing.T) {
	n := elem("div", map[string]string{"style": "page-break-before: always;"})
	a := NewAdapter(n)
	if got := a.Kind(); got != domain.KindPageBreak {
		t.Errorf("Kind() = %v, want pageBreak", got)
	}
}

func TestClassifyNoForcedBreakWithoutAlways(t *testing.T) {
	n := elem("div", map[string]string{"style": "page-break-before: avoid;"})
	a := NewAdapter(n)
	if got := a.Kind(); got == domain.KindPageBreak {
		t.Errorf("Kind() = pageBreak, want paragraph fallback")
	}
}

func TestAttrsHeadingLevel(t *testing.T) {
	a := NewAdapter(elem("h3", nil))
	if got := a.Attrs().HeadingLevel; got != 3 {
		t.Errorf("HeadingLevel = %d, want 3", got)
	}
}

func TestAttrsImageHeightFromAttribute(t *testing.T) {
	a := NewAdapter(elem("img", map[string]string{"height": "150"}))
	if got := a.Attrs().ImageHeight; got != 150 {
		t.Errorf("ImageHeight = %v, want 150", got)
	}
}

func TestAttrsImageHeightInlineStyleOverridesAttribute(t *testing.T) {
	n := elem("img", map[string]string{"height": "50", "style": "height: 100pt;"})
	a := NewAdapter(n)
	if got := a.Attrs().ImageHeight; got != 100 {
		t.Errorf("ImageHeight = %v, want 100 (style overrides attribute)", got)
	}
}

func TestAttrsImageHeightPxConvertsToPoints(t *testing.T) {
	n := elem("img", map[string]string{"style": "height: 96px;"})
	a := NewAdapter(n)
	got := a.Attrs().ImageHeight
	want := 96.0 * 72.0 / 96.0
	if got != want {
		t.Errorf("ImageHeight = %v, want %v (96px -> 72pt)", got, want)
	}
}

func TestNodeStyleBackgroundColor(t *testing.T) {
	n := elem("div", map[string]string{"style": "background-color: red;"})
	a := NewAdapter(n)
	style := a.Attrs().Style
	if style.Background.Color.R != 255 || style.Background.Color.A != 255 {
		t.Errorf("Background.Color = %+v, want opaque red", style.Background.Color)
	}
}

func TestNodeStyleBorderShorthand(t *testing.T) {
	n := elem("div", map[string]string{"style": "border: 2pt solid red;"})
	a := NewAdapter(n)
	border := a.Attrs().Style.Border
	if border.Width != 2 {
		t.Errorf("Border.Width = %v, want 2", border.Width)
	}
	if border.Style != domain.BorderSolid {
		t.Errorf("Border.Style = %v, want solid", border.Style)
	}
	if border.Color.R != 255 {
		t.Errorf("Border.Color = %+v, want red", border.Color)
	}
}

func TestNodeStyleFontFamilyAndWeightAndStyle(t *testing.T) {
	n := elem("p", map[string]string{"style": "font-family: Georgia; font-weight: bold; font-style: italic;"})
	a := NewAdapter(n)
	style := a.Attrs().Style
	if style.FontFamily != "Georgia" {
		t.Errorf("FontFamily = %q, want Georgia", style.FontFamily)
	}
	if style.FontWeight != 700 {
		t.Errorf("FontWeight = %d, want 700", style.FontWeight)
	}
	if style.FontStyle != "italic" {
		t.Errorf("FontStyle = %q, want italic", style.FontStyle)
	}
}

func TestNodeStyleFontWeightNumeric(t *testing.T) {
	n := elem("p", map[string]string{"style": "font-weight: 300;"})
	a := NewAdapter(n)
	if got := a.Attrs().Style.FontWeight; got != 300 {
		t.Errorf("FontWeight = %d, want 300", got)
	}
}

func TestNodeStyleNoStyleAttributeIsZeroValue(t *testing.T) {
	a := NewAdapter(elem("p", nil))
	style := a.Attrs().Style
	if style != (domain.NodeStyle{}) {
		t.Errorf("Style = %+v, want zero value", style)
	}
}

func TestTextContentConcatenatesDescendantText(t *testing.T) {
	root := elem("p", nil,
		textNode("hello "),
		elem("b", nil, textNode("world")),
	)
	a := NewAdapter(root)
	if got := a.TextContent(); got != "hello world" {
		t.Errorf("TextContent() = %q, want %q", got, "hello world")
	}
}

func TestChildrenWrapsEachChildAsAdapter(t *testing.T) {
	root := elem("ul", nil, elem("li", nil), elem("li", nil))
	a := NewAdapter(root)
	children := a.Children()
	if len(children) != 2 {
		t.Fatalf("len(Children()) = %d, want 2", len(children))
	}
	for _, c := range children {
		if c.Kind() != domain.KindListItem {
			t.Errorf("child Kind() = %v, want listItem", c.Kind())
		}
	}
}

func TestRootPosIsZero(t *testing.T) {
	a := NewAdapter(elem("p", nil, textNode("hello")))
	if got := a.Pos(); got != 0 {
		t.Errorf("Pos() = %d, want 0", got)
	}
}

func TestChildrenPosFollowsOnePlusCumulativeSize(t *testing.T) {
	root := elem("div", nil,
		elem("p", nil, textNode("hello")), // 5 runes
		elem("p", nil, textNode("world!")), // 6 runes
		elem("p", nil, textNode("x")),
	)
	a := NewAdapter(root)
	children := a.Children()
	want := []uint64{1, 6, 12}
	for i, c := range children {
		if got := c.Pos(); got != want[i] {
			t.Errorf("children[%d].Pos() = %d, want %d", i, got, want[i])
		}
	}
}

func TestChildrenPosOffsetByParentPos(t *testing.T) {
	inner := elem("span", nil, textNode("ab"), textNode("cd"))
	a := NewAdapter(inner)
	grandchildren := a.Children()
	if got := grandchildren[0].Pos(); got != 1 {
		t.Errorf("first child Pos() = %d, want 1", got)
	}
	if got := grandchildren[1].Pos(); got != 3 {
		t.Errorf("second child Pos() = %d, want 3 (1 + 2-rune first child)", got)
	}
}

func TestChildrenPosAdvancesByOneAfterZeroSizeNode(t *testing.T) {
	root := elem("div", nil,
		elem("page-break", nil),
		elem("p", nil, textNode("x")),
	)
	a := NewAdapter(root)
	children := a.Children()
	if got := children[0].Pos(); got != 1 {
		t.Errorf("page-break Pos() = %d, want 1", got)
	}
	if got := children[1].Pos(); got != children[0].Pos()+1 {
		t.Errorf("node after page-break Pos() = %d, want %d (one past the zero-size node)", got, children[0].Pos()+1)
	}
}
