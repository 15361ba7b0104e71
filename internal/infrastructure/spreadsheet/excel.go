// Package spreadsheet lee y escribe libros xlsx con excelize.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
	"github.com/jhoicas/conversion-pro/internal/domain/stats"
)

const (
	SheetLeads   = "Leads"
	SheetSummary = "Summary"

	// ContentType tipo MIME de un libro xlsx.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrNoSheet el libro no tiene hojas.
var ErrNoSheet = errors.New("spreadsheet: el libro no tiene hojas")

// Excel implementa imports.SpreadsheetReader y reports.SpreadsheetWriter.
type Excel struct{}

// New construye el adaptador.
func New() *Excel { return &Excel{} }

// ReadRows devuelve las filas de la primera hoja. Las celdas vacías al final
// de cada fila no aparecen (comportamiento de excelize) y las filas sin ningún
// valor se descartan, igual que las líneas en blanco de un CSV.
func (Excel) ReadRows(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: abrir libro: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: leer hoja %q: %w", name, err)
	}
	return dropBlankRows(rows), nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// WriteLeads genera un libro con la hoja "Leads" (mismas columnas que el
// CSV) y la hoja "Summary" con las cifras del resumen.
func (Excel) WriteLeads(leads []entity.Lead, sum stats.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetLeads); err != nil {
		return nil, fmt.Errorf("spreadsheet: renombrar hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: crear estilo: %w", err)
	}

	// ── Hoja de leads ─────────────────────────────────────────────────────────
	if err := writeRow(f, SheetLeads, 1, toAny(export.Columns)); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(export.Columns), 1)
	if err := f.SetCellStyle(SheetLeads, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("spreadsheet: estilo cabecera: %w", err)
	}
	for i, l := range leads {
		if err := writeRow(f, SheetLeads, i+2, toAny(export.Row(l))); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(export.Columns))
	if err := f.SetColWidth(SheetLeads, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("spreadsheet: ancho de columnas: %w", err)
	}

	// ── Hoja de resumen ───────────────────────────────────────────────────────
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("spreadsheet: crear hoja resumen: %w", err)
	}
	summaryRows := [][]any{
		{"Metric", "Value"},
		{"Total Leads", sum.Total},
		{"Open", sum.ByStatus.Open},
		{"WIP", sum.ByStatus.WIP},
		{"Closed", sum.ByStatus.Closed},
		{"Sale Lost", sum.ByStatus.SaleLost},
		{"Conversion Rate (%)", sum.ConversionLabel()},
		{},
		{"Group", "Leads", "Closed", "Rate (%)"},
	}
	for _, g := range sum.Groups {
		summaryRows = append(summaryRows, []any{string(g.Group), g.Count, g.Closed, g.Rate})
	}
	for i, r := range summaryRows {
		if len(r) == 0 {
			continue
		}
		if err := writeRow(f, SheetSummary, i+1, r); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle)
	_ = f.SetCellStyle(SheetSummary, "A9", "D9", headerStyle)
	_ = f.SetColWidth(SheetSummary, "A", "A", 24)

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("spreadsheet: celda fila %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("spreadsheet: escribir fila %d en %s: %w", row, sheet, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
