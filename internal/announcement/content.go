package announcement

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// Content is the rich-text body. It is stored and returned verbatim and never parsed.
type Content string

// IsBlank reports whether the content has no non-space characters.
func (c Content) IsBlank() bool {
	return strings.TrimSpace(string(c)) == ""
}

// InsertImage splices an <img> tag for url at the byte offset cursor. The
// cursor is clamped to the content and moved back to the nearest rune start.
func (c Content) InsertImage(cursor int, url string) Content {
	s := string(c)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(s) {
		cursor = len(s)
	}
	for cursor > 0 && cursor < len(s) && !utf8.RuneStart(s[cursor]) {
		cursor--
	}

	tag := fmt.Sprintf(`<img src="%s">`, html.EscapeString(url))
	return Content(s[:cursor] + tag + s[cursor:])
}
