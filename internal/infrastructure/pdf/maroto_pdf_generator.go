// Package pdf genera el resumen del administrador en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Conversion Pro  │  Resumen + fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Total | Open | WIP | Closed | Sale Lost | Conversión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Grupo | Leads | Closed | Tasa                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/conversion-pro/internal/domain/stats"
)

// ContentType tipo MIME del documento.
const ContentType = "application/pdf"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 22, Green: 128, Blue: 61}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.SummaryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	if appName == "" {
		appName = "Conversion Pro"
	}
	return &MarotoPDFGenerator{appName: appName}
}

// GenerateSummaryPDF genera el PDF del resumen y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSummaryPDF(_ context.Context, sum stats.Summary, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.appName+" - Admin Summary", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(sum))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(groupRows(sum)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sum))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(appName string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Lead tracking", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ADMIN SUMMARY", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generated: "+at.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// kpiRow: una columna por cifra; la conversión ocupa el doble.
func kpiRow(sum stats.Summary) core.Row {
	kpi := func(label, value string, size int, color *props.Color) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{
				Size: 7, Align: align.Center, Color: colorGray, Top: 2,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: color, Top: 7,
			}),
		)
	}
	return row.New(20).Add(
		kpi("TOTAL LEADS", formatCount(sum.Total), 2, colorPrimary),
		kpi("OPEN", formatCount(sum.ByStatus.Open), 2, nil),
		kpi("WIP", formatCount(sum.ByStatus.WIP), 2, nil),
		kpi("CLOSED", formatCount(sum.ByStatus.Closed), 2, colorGreen),
		kpi("SALE LOST", formatCount(sum.ByStatus.SaleLost), 2, nil),
		kpi("CONVERSION", sum.ConversionLabel()+"%", 2, colorGreen),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Product group", 6, align.Left),
		h("Leads", 2, align.Right),
		h("Closed", 2, align.Right),
		h("Rate", 2, align.Right),
	)
}

// groupRows: una fila por grupo con leads; un aviso si no hay ninguno.
func groupRows(sum stats.Summary) []core.Row {
	if len(sum.Groups) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("No leads recorded yet.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		))}
	}
	result := make([]core.Row, 0, len(sum.Groups))
	for _, gs := range sum.Groups {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(string(gs.Group), props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatCount(gs.Count), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatCount(gs.Closed), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(strconv.Itoa(gs.Rate)+"%", props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRow(sum stats.Summary) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Conversion rate = closed / total leads (%s of %s). Group rate rounded to the nearest integer.",
				formatCount(sum.ByStatus.Closed), formatCount(sum.Total)),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatCount inserta separadores de miles.
// Ej: 25000 → "25,000", 1000000 → "1,000,000"
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatCount(-n)
	}
	l := len(s)
	if l <= 3 {
		return s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
