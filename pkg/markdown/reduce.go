// Package markdown reduces a markdown release body into the ordered item
// sequence stored in a ReleaseNotes record. The reduction runs in two
// passes: a classification walk over the goldmark syntax tree, then a merge
// pass that folds adjacent fragments into paragraph-level text blocks.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/m-mizutani/relnote/pkg/domain/model"
)

// engine is stateless and safe for concurrent use, so a single instance is
// shared across requests.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Reduce converts a markdown release body into merged paragraph-level
// items. An empty or unparsable body yields an empty sequence; reduction
// never fails.
func Reduce(body string) (items []model.Item) {
	items = []model.Item{}
	if body == "" {
		return items
	}

	// goldmark reports malformed input by panicking rather than returning
	// an error; degrade to an empty item list either way.
	defer func() {
		if r := recover(); r != nil {
			items = []model.Item{}
		}
	}()

	src := []byte(body)
	doc := engine.Parser().Parse(text.NewReader(src))

	items = mergeItems(classify(doc, nil, src))
	return items
}

// classify walks the syntax tree and emits one item per text fragment,
// classified by the immediate parent node. Container nodes record
// themselves as the context for their children; paragraphs and lists append
// break markers consumed later by mergeItems.
func classify(node, context ast.Node, src []byte) []model.Item {
	switch n := node.(type) {
	case *ast.Document:
		return classifyChildren(n, src)

	case *ast.Paragraph:
		// A paragraph holding nothing but an image is a release-note
		// hero banner and renders as no text at all.
		if n.ChildCount() == 1 && n.FirstChild().Kind() == ast.KindImage {
			return nil
		}
		return append(classifyChildren(n, src), model.Item{Category: model.CategoryBreakParagraph})

	case *ast.List:
		return append(classifyChildren(n, src), model.Item{Category: model.CategoryBreakList})

	case *ast.ListItem, *ast.TextBlock, *ast.Emphasis, *ast.Link:
		// Emphasis covers both bold (level 2) and italic (level 1).
		// TextBlock wraps tight list item content; like the other
		// containers it contributes no break of its own.
		return classifyChildren(n, src)

	case *ast.CodeSpan:
		return []model.Item{{Category: model.CategoryCode, Text: spanText(n, src)}}

	case *ast.AutoLink:
		// bare URLs matched by the GFM autolink extension; the URL
		// doubles as the category, like any other link context
		return []model.Item{{Category: model.ItemCategory(n.URL(src)), Text: string(n.Label(src))}}

	case *ast.String:
		// resolved entity references such as &amp;
		return []model.Item{{Category: textCategory(context), Text: string(n.Value)}}

	case *ast.Text:
		value := string(n.Segment.Value(src))
		// text segments exclude the newline between the lines of a
		// paragraph; restore it for soft breaks. Hard breaks contribute
		// no whitespace at all.
		if n.SoftLineBreak() && !n.HardLineBreak() {
			value += "\n"
		}
		return []model.Item{{Category: textCategory(context), Text: value}}

	default:
		// Headings, thematic breaks, raw HTML and anything else the
		// subset does not cover contribute nothing.
		return nil
	}
}

func classifyChildren(n ast.Node, src []byte) []model.Item {
	var items []model.Item
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		items = append(items, classify(c, n, src)...)
	}
	return items
}

// textCategory classifies a text fragment by its immediate context. Text
// inside a link carries the link's destination URL as its category.
func textCategory(context ast.Node) model.ItemCategory {
	switch c := context.(type) {
	case *ast.Emphasis:
		if c.Level >= 2 {
			return model.CategoryBold
		}
		return model.CategoryItalic
	case *ast.Link:
		return model.ItemCategory(c.Destination)
	default:
		return model.CategoryText
	}
}

// spanText collects the literal text of a code span
func spanText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return sb.String()
}

// mergeItems folds the flat fragment sequence into paragraph-level text
// blocks. Bold and italic fragments are re-inserted as inline tags; every
// break marker flushes the accumulated buffer as one text item. Trailing
// content with no closing break is dropped, mirroring the fact that every
// handled block construct ends in a break marker.
func mergeItems(items []model.Item) []model.Item {
	merged := []model.Item{}
	var sb strings.Builder

	for _, item := range items {
		if item.IsBreak() {
			merged = append(merged, model.Item{Category: model.CategoryText, Text: sb.String()})
			sb.Reset()
			continue
		}

		switch item.Category {
		case model.CategoryBold:
			sb.WriteString("<b>")
			sb.WriteString(item.Text)
			sb.WriteString("</b>")
		case model.CategoryItalic:
			sb.WriteString("<i>")
			sb.WriteString(item.Text)
			sb.WriteString("</i>")
		default:
			// code spans and link text merge as plain text; a link's
			// URL lives only in the pass-1 category
			sb.WriteString(item.Text)
		}
	}

	return merged
}
