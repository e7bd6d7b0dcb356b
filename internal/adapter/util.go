package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobscout/internal/model"
)

// textOrUnknown extracts the collapsed text of the first matched element,
// falling back to the Unknown sentinel when the selection is empty or the
// element holds only whitespace.
func textOrUnknown(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return model.Unknown
	}
	text := strings.Join(strings.Fields(sel.First().Text()), " ")
	if text == "" {
		return model.Unknown
	}
	return text
}

// attrOrUnknown extracts an attribute of the first matched element, falling
// back to the Unknown sentinel when the element or attribute is absent.
func attrOrUnknown(sel *goquery.Selection, attr string) string {
	if sel.Length() == 0 {
		return model.Unknown
	}
	val, ok := sel.First().Attr(attr)
	if !ok || strings.TrimSpace(val) == "" {
		return model.Unknown
	}
	return strings.TrimSpace(val)
}
