package styles

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	// FontSize is the label size used by every sink.
	FontSize      = 12.0
	fontCharWidth = 0.6
	labelPadding  = 12.0
)

// TruncateLabel shortens label so it fits a box of the given width.
func TruncateLabel(label string, width float64) string {
	avail := width - labelPadding
	maxChars := max(3, int(avail/(FontSize*fontCharWidth)))
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
