package extract

import (
	"regexp"
	"strings"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

const (
	activityClass = "widget-activity-item"
	cellClass     = "tbl-cell"
)

var (
	activityOpenPattern = classedDivPattern(activityClass)
	divTagPattern       = regexp.MustCompile(`(?i)</?div\b[^>]*>`)
	cellPattern         = regexp.MustCompile(`(?is)<div\b[^>]*class=["'][^"']*` + regexp.QuoteMeta(cellClass) + `[^"']*["'][^>]*>(.*?)</div>`)
	paragraphPattern    = regexp.MustCompile(`(?is)<p\b[^>]*>(.*?)</p>`)
	spanPattern         = regexp.MustCompile(`(?is)<span\b[^>]*>(.*?)</span>`)
)

func classedDivPattern(class string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<div\b[^>]*class=["'][^"']*` + regexp.QuoteMeta(class) + `[^"']*["'][^>]*>`)
}

// Activities scrapes the activity widget, one event per well-formed block, in
// document order. Blocks that are malformed or still hold template source
// are skipped.
func (e *Extractor) Activities(html string) []domain.Event {
	events := []domain.Event{}

	pos := 0
	for pos < len(html) {
		loc := activityOpenPattern.FindStringIndex(html[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		end := blockEnd(html, pos+loc[1])

		if ev, ok := e.parseBlock(html[start:end]); ok {
			events = append(events, ev)
		}
		pos = end
	}

	return events
}

// blockEnd returns the offset just past the </div> closing the div opened
// right before cursor. Unterminated blocks run to the end of the document.
func blockEnd(html string, cursor int) int {
	depth := 1
	for depth > 0 {
		loc := divTagPattern.FindStringIndex(html[cursor:])
		if loc == nil {
			return len(html)
		}
		if strings.HasPrefix(html[cursor+loc[0]:], "</") {
			depth--
		} else {
			depth++
		}
		cursor += loc[1]
	}
	return cursor
}

func (e *Extractor) parseBlock(block string) (domain.Event, bool) {
	cells := cellPattern.FindAllStringSubmatch(block, -1)
	if len(cells) < 2 {
		return domain.Event{}, false
	}

	// The first cell only holds the timeline icon.
	paragraphs := paragraphPattern.FindAllStringSubmatch(cells[1][1], -1)
	if len(paragraphs) == 0 {
		return domain.Event{}, false
	}

	var ev domain.Event
	spans := spanPattern.FindAllStringSubmatch(paragraphs[0][1], -1)
	if len(spans) > 0 {
		ev.Timestamp = CleanText(spans[0][1])
	}
	if len(spans) > 1 {
		ev.Status = CleanText(spans[1][1])
	}
	if len(paragraphs) > 1 {
		ev.Detail = CleanText(paragraphs[1][1])
	}

	if ev.Timestamp == "" || !hasDigit(ev.Timestamp) {
		return domain.Event{}, false
	}
	if e.isArtifact(ev.Timestamp) || e.isArtifact(ev.Status) || e.isArtifact(ev.Detail) {
		return domain.Event{}, false
	}
	return ev, true
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
