package model

import "strings"

// ItemCategory classifies one fragment of reduced release-note text. A link
// fragment's category is the link's destination URL itself rather than a
// fixed constant.
type ItemCategory string

const (
	CategoryText   ItemCategory = "text"
	CategoryBold   ItemCategory = "bold"
	CategoryItalic ItemCategory = "italic"
	CategoryCode   ItemCategory = "code"

	// Break markers separate paragraph- and list-level blocks during
	// reduction. They are consumed by the merge pass and never appear in
	// a finished ReleaseNotes record.
	CategoryBreakParagraph ItemCategory = "break-p"
	CategoryBreakList      ItemCategory = "break-l"
)

// Item is one classified fragment of release-note text
type Item struct {
	Category ItemCategory `json:"category"`
	Text     string       `json:"text"`
}

// IsBreak reports whether the item is a paragraph or list boundary marker
func (i Item) IsBreak() bool {
	return strings.HasPrefix(string(i.Category), "break")
}
