// Package extract turns a carrier tracking page into tracking events.
//
// The portal has no API, so two narrow extractors run over the raw HTML: the
// activity widget scraper (Activities) and, when the widget is empty, the
// payload the page embeds twice JSON-encoded inside an inline script
// (Embedded). Neither builds a DOM of the widget markup.
package extract

import (
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	entityPattern = regexp.MustCompile(`(?i)&(?:nbsp|amp|quot|#39|lt|gt);`)
)

var entities = map[string]string{
	"&nbsp;": " ",
	"&amp;":  "&",
	"&quot;": `"`,
	"&#39;":  "'",
	"&lt;":   "<",
	"&gt;":   ">",
}

// DecodeEntities decodes the entities the portal emits in a single pass, so
// "&amp;quot;" becomes "&quot;" and not a double quote.
func DecodeEntities(s string) string {
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		return entities[strings.ToLower(m)]
	})
}

// CleanText strips tags, decodes entities and collapses whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, " ")
	s = DecodeEntities(s)
	return strings.Join(strings.Fields(s), " ")
}
