package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

func activityBlock(ts, status, detail string) string {
	return `<div class="timeline-item widget-activity-item">
  <div class="tbl-cell icon"><i class="fa fa-truck"></i></div>
  <div class="tbl-cell"><p><span class="date">` + ts + `</span> <span class="status">` + status + `</span></p><p>` + detail + `</p></div>
</div>`
}

func page(body ...string) string {
	return "<html><body><div class=\"widget\">" + strings.Join(body, "\n") + "</div></body></html>"
}

func TestActivities_NoBlocks(t *testing.T) {
	events := New().Activities(page("<p>Sin resultados</p>"))

	require.NotNil(t, events)
	assert.Empty(t, events)
}

func TestActivities_SingleBlock(t *testing.T) {
	html := page(activityBlock("<b>12/05/2024</b> 10:30", "En tránsito", "Bodega&nbsp;Santiago"))

	events := New().Activities(html)

	require.Len(t, events, 1)
	assert.Equal(t, "12/05/2024 10:30", events[0].Timestamp)
	assert.Equal(t, "En tránsito", events[0].Status)
	assert.Equal(t, "Bodega Santiago", events[0].Detail)
}

func TestActivities_DocumentOrder(t *testing.T) {
	html := page(
		activityBlock("13/05/2024 09:00", "Entregado", "Domicilio"),
		activityBlock("12/05/2024 10:30", "En tránsito", "Bodega Santiago"),
		activityBlock("11/05/2024 18:45", "Recibido", "Miami"),
	)

	events := New().Activities(html)

	require.Len(t, events, 3)
	assert.Equal(t, []string{"Entregado", "En tránsito", "Recibido"},
		[]string{events[0].Status, events[1].Status, events[2].Status})
}

func TestActivities_MissingDetailParagraph(t *testing.T) {
	html := page(`<div class="widget-activity-item"><div class="tbl-cell"></div>` +
		`<div class="tbl-cell"><p><span>12/05/2024</span><span>Recibido</span></p></div></div>`)

	events := New().Activities(html)

	require.Len(t, events, 1)
	assert.Equal(t, domain.Event{Timestamp: "12/05/2024", Status: "Recibido"}, events[0])
}

func TestActivities_DropsInvalidCandidates(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{"template detail", activityBlock("12/05/2024 10:30", "En tránsito", "Dato.Comentarios")},
		{"template status", activityBlock("12/05/2024 10:30", "' + valor.estado + '", "Bodega")},
		{"template timestamp", activityBlock("dat[0] 10", "En tránsito", "Bodega")},
		{"timestamp without digits", activityBlock("ayer", "En tránsito", "Bodega")},
		{"empty timestamp", activityBlock("", "En tránsito", "Bodega")},
		{"single cell", `<div class="widget-activity-item"><div class="tbl-cell"><p><span>12/05/2024</span></p></div></div>`},
		{"no paragraphs", `<div class="widget-activity-item"><div class="tbl-cell"></div><div class="tbl-cell">12/05/2024</div></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := page(tt.block, activityBlock("01/01/2024 08:00", "Creado", "Origen"))

			events := New().Activities(html)

			require.Len(t, events, 1)
			assert.Equal(t, "Creado", events[0].Status)
		})
	}
}

func TestActivities_NestedDivsDoNotCloseBlockEarly(t *testing.T) {
	nested := `<div class="widget-activity-item"><div class="wrapper">` +
		`<div class="tbl-cell"><i></i></div>` +
		`<div class="tbl-cell"><p><span>12/05/2024 10:30</span><span>Entregado</span></p><p>Santiago</p></div>` +
		`</div></div>`
	html := page(nested, activityBlock("11/05/2024 08:00", "En tránsito", "Bodega"))

	events := New().Activities(html)

	require.Len(t, events, 2)
	assert.Equal(t, domain.Event{Timestamp: "12/05/2024 10:30", Status: "Entregado", Detail: "Santiago"}, events[0])
	assert.Equal(t, "En tránsito", events[1].Status)
}

func TestActivities_NestedActivityClassInsideBlockIsPartOfOuter(t *testing.T) {
	inner := activityBlock("10/05/2024 07:00", "Interno", "Ignorado")
	outer := `<div class="widget-activity-item">` +
		`<div class="tbl-cell"></div>` +
		`<div class="tbl-cell"><p><span>12/05/2024 10:30</span><span>Externo</span></p></div>` +
		inner + `</div>`

	events := New().Activities(page(outer))

	require.Len(t, events, 1)
	assert.Equal(t, "Externo", events[0].Status)
}

func TestActivities_UnterminatedBlock(t *testing.T) {
	html := `<div class="widget-activity-item"><div class="tbl-cell">i</div>` +
		`<div class="tbl-cell"><p><span>01/02/2024 09:00</span><span>Recibido</span></p></div>`

	var events []domain.Event
	require.NotPanics(t, func() { events = New().Activities(html) })

	require.Len(t, events, 1)
	assert.Equal(t, "Recibido", events[0].Status)
	assert.Empty(t, events[0].Detail)
}

func TestActivities_CaseInsensitiveMarkup(t *testing.T) {
	html := `<DIV CLASS='row Widget-Activity-Item'><DIV class='TBL-CELL'></DIV>` +
		`<DIV class='tbl-cell'><P><SPAN>12/05/2024</SPAN><SPAN>Recibido</SPAN></P></DIV></DIV>`

	events := New().Activities(html)

	require.Len(t, events, 1)
	assert.Equal(t, "Recibido", events[0].Status)
}

func TestActivities_CustomArtifactDetector(t *testing.T) {
	html := page(activityBlock("12/05/2024 10:30", "En tránsito", "{{ detalle }}"))

	assert.Len(t, New().Activities(html), 1)

	strict := New(WithArtifactDetector(NewArtifactDetector([]string{`\{\{`})))
	assert.Empty(t, strict.Activities(html))
}
