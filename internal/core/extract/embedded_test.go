package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

// encodeTwice renders v the way the portal does: JSON text, then that text
// as a JSON string literal.
func encodeTwice(t *testing.T, v any) (inner, literal string) {
	t.Helper()
	in, err := json.Marshal(v)
	require.NoError(t, err)
	out, err := json.Marshal(string(in))
	require.NoError(t, err)
	return string(in), string(out)
}

func payloadPage(script string) string {
	return `<html><head><script src="/js/app.js"></script>
<script>var unrelated = JSON.parse("[]");</script>
<script>` + script + `</script></head><body></body></html>`
}

func TestEmbedded_RoundTrip(t *testing.T) {
	want := []map[string]any{
		{"shipping": "ABC98211000001", "date": "2024-05-12T10:30:00", "status": "En tránsito", "location": "Bodega <Santiago> & Co"},
		{"shipping": "ABC98211000001", "date": "2024-05-11T08:00:00", "status": "Recibido", "location": "Miami", "extra": []any{1.5, "x", nil}},
	}
	inner, literal := encodeTwice(t, want)
	html := payloadPage(`function AjaxBasicRequestPOSTSE(url) {
  var data = JSON.parse(` + literal + `);
  render(data);
}`)

	events, err := New().Embedded(html)
	require.NoError(t, err)
	require.Len(t, events, 2)

	out, err := json.Marshal(events)
	require.NoError(t, err)
	assert.JSONEq(t, inner, string(out))

	assert.Equal(t, "2024-05-12T10:30:00", events[0].Timestamp)
	assert.Equal(t, "En tránsito", events[0].Status)
	assert.Equal(t, "Bodega <Santiago> & Co", events[0].Detail)
	assert.Equal(t, "ABC98211000001", events[0].Shipping)
}

func TestEmbedded_CommentsDoNotHidePayload(t *testing.T) {
	_, literal := encodeTwice(t, []map[string]string{{"status": "Entregado"}})
	html := payloadPage(`function AjaxBasicRequestPOSTSE() {
  /* old: var data = JSON.parse("[{\"status\":\"viejo\"}]"); */
  // var data = JSON.parse("[{\"status\":\"comentado\"}]");
  var data = JSON.parse(` + literal + `);
}`)

	events, err := New().Embedded(html)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Entregado", events[0].Status)
}

func TestEmbedded_EmptyArray(t *testing.T) {
	html := payloadPage(`function AjaxBasicRequestPOSTSE() { var d = JSON.parse("[]"); }`)

	events, err := New().Embedded(html)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEmbedded_JavaScriptOnlyEscapes(t *testing.T) {
	html := payloadPage(`function AjaxBasicRequestPOSTSE() { var d = JSON.parse("[{\"status\":\"\x41\"}]"); }`)

	events, err := New().Embedded(html)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "A", events[0].Status)
}

func TestEmbedded_Errors(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		reason string
	}{
		{
			name:   "no scripts",
			html:   "<html><body><p>nada</p></body></html>",
			reason: domain.ReasonScriptNotFound,
		},
		{
			name:   "markers split across scripts",
			html:   `<script>AjaxBasicRequestPOSTSE();</script><script>JSON.parse("[]")</script>`,
			reason: domain.ReasonScriptNotFound,
		},
		{
			name: "script inside html comment",
			html: `<html><body><!-- <script>function AjaxBasicRequestPOSTSE() { var d = JSON.parse("[]"); }</script> -->` +
				`<textarea><script>function AjaxBasicRequestPOSTSE() { var d = JSON.parse("[]"); }</script></textarea></body></html>`,
			reason: domain.ReasonScriptNotFound,
		},
		{
			name:   "payload only in comment",
			html:   payloadPage(`function AjaxBasicRequestPOSTSE() { /* JSON.parse("[]") */ var d = JSON.parse(resp); }`),
			reason: domain.ReasonPayloadNotFound,
		},
		{
			name:   "payload is not json",
			html:   payloadPage(`function AjaxBasicRequestPOSTSE() { var d = JSON.parse("no es json"); }`),
			reason: domain.ReasonInvalidEventList,
		},
		{
			name:   "payload is an object",
			html:   payloadPage(`function AjaxBasicRequestPOSTSE() { var d = JSON.parse("{\"a\":1}"); }`),
			reason: domain.ReasonInvalidEventList,
		},
		{
			name:   "bad escape",
			html:   payloadPage(`function AjaxBasicRequestPOSTSE() { var d = JSON.parse("[\q]"); }`),
			reason: domain.ReasonInvalidLiteral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := New().Embedded(tt.html)

			assert.Nil(t, events)
			var perr *domain.ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.reason, perr.Reason)
		})
	}
}

func TestDecodeStringLiteral(t *testing.T) {
	text, err := decodeStringLiteral(`[{\"a\":\"b\\\"c\"}]`)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":"b\"c"}]`, text)
}

func TestEventFromRaw_FieldAliases(t *testing.T) {
	raw := json.RawMessage(`{"NumeroGuia":"ABC98211000001","Fecha":"12/05/2024","Hora":"10:30","Descripcion":"Entregado","Comentarios":"Recibe: Juan","Id":12345678}`)

	ev := eventFromRaw(raw)

	assert.Equal(t, "12/05/2024 10:30", ev.Timestamp)
	assert.Equal(t, "Entregado", ev.Status)
	assert.Equal(t, "Recibe: Juan", ev.Detail)
	assert.Equal(t, "ABC98211000001", ev.Shipping)
	assert.Equal(t, raw, ev.Raw)
}

func TestEventFromRaw_NonObject(t *testing.T) {
	ev := eventFromRaw(json.RawMessage(`"texto"`))

	assert.Empty(t, ev.Timestamp)
	assert.Empty(t, ev.Status)
	assert.Equal(t, json.RawMessage(`"texto"`), ev.Raw)
}
