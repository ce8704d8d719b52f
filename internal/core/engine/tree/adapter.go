// Package tree adapts the teacher's HTML DOM into the pagination core's
// polymorphic Node contract, so the core never imports a concrete
// document-tree implementation.
package tree

import (
	"strconv"
	"strings"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/css"
	"pagecore/internal/core/engine/html"
	"pagecore/internal/core/engine/pagination"
)

// styleParser reads inline style="..." attributes. Non-strict: a
// malformed declaration is skipped rather than failing classification.
var styleParser = css.NewParser(false)

// inlineDeclaration returns the value of property in n's style attribute,
// or "" if absent or unparseable.
func inlineDeclaration(n *html.DOMNode, property string) string {
	style, ok := n.GetAttribute("style")
	if !ok || style == "" {
		return ""
	}
	decls, err := styleParser.ParseInlineStyle(style)
	if err != nil {
		return ""
	}
	for _, d := range decls {
		if strings.EqualFold(d.Property, property) {
			return d.Value
		}
	}
	return ""
}

var blockTagKinds = map[string]domain.NodeKind{
	"p":          domain.KindParagraph,
	"h1":         domain.KindHeading,
	"h2":         domain.KindHeading,
	"h3":         domain.KindHeading,
	"h4":         domain.KindHeading,
	"h5":         domain.KindHeading,
	"h6":         domain.KindHeading,
	"pre":        domain.KindCodeBlock,
	"blockquote": domain.KindBlockquote,
	"ul":         domain.KindBulletList,
	"ol":         domain.KindOrderedList,
	"li":         domain.KindListItem,
	"table":      domain.KindTable,
	"tr":         domain.KindTableRow,
	"td":         domain.KindTableCell,
	"th":         domain.KindTableCell,
	"img":        domain.KindImage,
	"hr":         domain.KindHorizontalRule,
	"br":         domain.KindHardBreak,
	"page-break": domain.KindPageBreak,
}

// Adapter wraps an *html.DOMNode so it satisfies pagination.Node. pos is
// this node's offset in the document's linear position space, following
// the position scheme child i has position 1 + Σ(size of children 0..i−1):
// each sibling consumes at least one position unit plus its text length,
// so pos+1 always lands immediately after a zero-size (e.g. page-break)
// node rather than overlapping the sibling that follows it.
type Adapter struct {
	dom *html.DOMNode
	pos uint64
}

// NewAdapter wraps dom as a pagination.Node rooted at position 0.
func NewAdapter(dom *html.DOMNode) *Adapter {
	return &Adapter{dom: dom}
}

func (a *Adapter) Kind() domain.NodeKind {
	return classify(a.dom)
}

// classify maps a DOM element to a NodeKind, including the
// page-break-before CSS declaration onto a synthetic pageBreak kind, per
// the tree adapter's position-scheme contract.
func classify(n *html.DOMNode) domain.NodeKind {
	if n.Type == html.TextNode {
		return domain.KindText
	}
	if hasForcedBreakBefore(n) {
		return domain.KindPageBreak
	}
	tag := strings.ToLower(n.Data)
	if kind, ok := blockTagKinds[tag]; ok {
		return kind
	}
	return domain.KindParagraph
}

func hasForcedBreakBefore(n *html.DOMNode) bool {
	if strings.EqualFold(n.Data, "page-break") {
		return true
	}
	return strings.EqualFold(inlineDeclaration(n, "page-break-before"), "always")
}

func (a *Adapter) Attrs() domain.NodeAttrs {
	attrs := domain.NodeAttrs{}
	tag := strings.ToLower(a.dom.Data)
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		level, _ := strconv.Atoi(tag[1:])
		attrs.HeadingLevel = level
	}
	if tag == "img" {
		if h, ok := a.dom.GetAttribute("height"); ok {
			if v, err := strconv.ParseFloat(h, 64); err == nil {
				attrs.ImageHeight = v
			}
		}
		// An inline style height overrides the bare attribute, matching
		// CSS cascade order (attribute first, style last).
		if v, ok := parsePointValue(inlineDeclaration(a.dom, "height")); ok {
			attrs.ImageHeight = v
		}
	}
	attrs.Style = nodeStyle(a.dom)
	return attrs
}

// parsePointValue converts a CSS length declaration value to points. Only
// px, pt, and unitless values are supported; anything else (em, %, colors,
// keywords) is reported as absent rather than guessed at.
func parsePointValue(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	parsed := css.ParseValue(raw)
	switch v := parsed.(type) {
	case float64:
		return v, true
	case map[string]interface{}:
		num, ok := v["value"].(float64)
		if !ok {
			return 0, false
		}
		switch v["unit"] {
		case "pt":
			return num, true
		case "px":
			return num * 72.0 / 96.0, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

// nodeStyle extracts the renderer-facing style subset from n's inline
// style attribute. Every field is best-effort: an unparseable or absent
// declaration leaves the corresponding zero value.
func nodeStyle(n *html.DOMNode) domain.NodeStyle {
	var style domain.NodeStyle
	if bg := inlineDeclaration(n, "background-color"); bg != "" {
		if c, ok := css.ParseValue(bg).(*domain.Color); ok {
			style.Background = domain.Background{Color: *c}
		}
	}
	if border := inlineDeclaration(n, "border"); border != "" {
		style.Border = parseBorderShorthand(border)
	}
	if ff := inlineDeclaration(n, "font-family"); ff != "" {
		style.FontFamily = ff
	}
	if fw := inlineDeclaration(n, "font-weight"); fw != "" {
		style.FontWeight = parseFontWeight(fw)
	}
	if fs := inlineDeclaration(n, "font-style"); strings.EqualFold(fs, "italic") {
		style.FontStyle = "italic"
	}
	return style
}

// parseBorderShorthand parses a CSS border shorthand ("1px solid #333")
// into its width/style/color components; order of tokens doesn't matter.
func parseBorderShorthand(value string) domain.BorderStyle {
	var b domain.BorderStyle
	for _, tok := range strings.Fields(value) {
		if v, ok := parsePointValue(tok); ok {
			b.Width = v
			continue
		}
		switch strings.ToLower(tok) {
		case "solid":
			b.Style = domain.BorderSolid
		case "dashed":
			b.Style = domain.BorderDashed
		case "dotted":
			b.Style = domain.BorderDotted
		case "double":
			b.Style = domain.BorderDouble
		case "none":
			b.Style = domain.BorderNone
		default:
			if c, ok := css.ParseValue(tok).(*domain.Color); ok {
				b.Color = *c
			}
		}
	}
	return b
}

func parseFontWeight(value string) int {
	switch strings.ToLower(value) {
	case "bold":
		return 700
	case "normal":
		return 400
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return 400
}

func (a *Adapter) TextContent() string {
	var sb strings.Builder
	collectText(a.dom, &sb)
	return sb.String()
}

func collectText(n *html.DOMNode, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for _, child := range n.Children {
		collectText(child, sb)
	}
}

// Children assigns each child its position as one past the cumulative
// size of every earlier sibling, measured from the parent's own position:
// child i gets pos = parent.pos + 1 + Σ(size of children 0..i−1), where a
// node's size is its text length but never less than 1 so that advancing
// past a zero-size node still moves the position forward by exactly one.
func (a *Adapter) Children() []pagination.Node {
	out := make([]pagination.Node, 0, len(a.dom.Children))
	cum := uint64(0)
	for _, child := range a.dom.Children {
		adapted := &Adapter{dom: child, pos: a.pos + 1 + cum}
		out = append(out, adapted)
		size := uint64(len([]rune(adapted.TextContent())))
		if size == 0 {
			size = 1
		}
		cum += size
	}
	return out
}

func (a *Adapter) IsText() bool {
	return a.dom.Type == html.TextNode
}

func (a *Adapter) Pos() uint64 {
	return a.pos
}
