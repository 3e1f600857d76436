package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

// Markers identifying the inline script that carries the tracking payload.
const (
	payloadFunctionMarker = "AjaxBasicRequestPOSTSE"
	payloadParseMarker    = "JSON.parse"
)

var (
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentPattern  = regexp.MustCompile(`(?m)^\s*//.*$`)
	parseCallPattern    = regexp.MustCompile(`(?s)JSON\.parse\(\s*"((?:[^"\\]|\\.)*)"\s*\)`)
)

// Embedded recovers the event array the page embeds as
// JSON.parse("<json string>") in an inline script. Any failure is reported
// as a *domain.ParseError.
func (e *Extractor) Embedded(html string) ([]domain.Event, error) {
	script, err := findPayloadScript(html)
	if err != nil {
		return nil, err
	}

	literal, err := payloadLiteral(script)
	if err != nil {
		return nil, err
	}

	text, err := decodeStringLiteral(literal)
	if err != nil {
		return nil, err
	}

	return decodeEventArray(text)
}

func findPayloadScript(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &domain.ParseError{Reason: domain.ReasonScriptNotFound, Err: err}
	}

	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, payloadFunctionMarker) && strings.Contains(text, payloadParseMarker) {
			found = text
			return false
		}
		return true
	})
	if found == "" {
		return "", &domain.ParseError{Reason: domain.ReasonScriptNotFound}
	}
	return found, nil
}

// stripComments removes /* */ blocks and whole-line // comments. Trailing //
// comments are left alone since they cannot be told apart from URLs in
// string literals without a tokenizer.
func stripComments(script string) string {
	script = blockCommentPattern.ReplaceAllString(script, "")
	return lineCommentPattern.ReplaceAllString(script, "")
}

func payloadLiteral(script string) (string, error) {
	m := parseCallPattern.FindStringSubmatch(stripComments(script))
	if m == nil {
		return "", &domain.ParseError{Reason: domain.ReasonPayloadNotFound}
	}
	return m[1], nil
}

// decodeStringLiteral resolves the escapes of the quoted literal body, giving
// the JSON text of the event array.
func decodeStringLiteral(body string) (string, error) {
	quoted := `"` + body + `"`

	var text string
	if err := json.Unmarshal([]byte(quoted), &text); err == nil {
		return text, nil
	}
	// JavaScript allows escapes JSON does not, such as \x41.
	text, err := strconv.Unquote(quoted)
	if err != nil {
		return "", &domain.ParseError{Reason: domain.ReasonInvalidLiteral, Err: err}
	}
	return text, nil
}

// decodeEventArray parses the event array, keeping every element verbatim.
func decodeEventArray(text string) ([]domain.Event, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, &domain.ParseError{Reason: domain.ReasonInvalidEventList, Err: err}
	}

	events := make([]domain.Event, 0, len(items))
	for _, raw := range items {
		events = append(events, eventFromRaw(raw))
	}
	return events, nil
}

var (
	timestampKeys = []string{"timestamp", "date", "fecha"}
	statusKeys    = []string{"status", "descripcion", "estado"}
	detailKeys    = []string{"detail", "location", "comentarios"}
	shippingKeys  = []string{"shipping", "numeroguia", "ngui"}
)

// eventFromRaw derives the text view of an embedded element. Field names vary
// between portal versions, so keys are matched case-insensitively against a
// list of known aliases.
func eventFromRaw(raw json.RawMessage) domain.Event {
	ev := domain.Event{Raw: raw}

	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return ev
	}
	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		if v == nil {
			continue
		}
		fields[strings.ToLower(k)] = strings.TrimSpace(fmt.Sprint(v))
	}

	ev.Timestamp = firstField(fields, timestampKeys)
	if hora := fields["hora"]; hora != "" && fields["fecha"] != "" && ev.Timestamp == fields["fecha"] {
		ev.Timestamp += " " + hora
	}
	ev.Status = firstField(fields, statusKeys)
	ev.Detail = firstField(fields, detailKeys)
	ev.Shipping = firstField(fields, shippingKeys)
	return ev
}

func firstField(fields map[string]string, keys []string) string {
	for _, k := range keys {
		if v := fields[k]; v != "" {
			return v
		}
	}
	return ""
}
