// Package export serializa leads al reporte de ventas delimitado por comas.
package export

import (
	"strings"
	"time"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// Columns cabecera del reporte.
var Columns = []string{"Date", "Employee", "Customer", "Mobile", "Group", "Description", "Status", "Bill Number"}

// NoBill valor exportado cuando el lead no tiene factura.
const NoBill = "N/A"

// Report archivo listo para descargar.
type Report struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Filename nombre sugerido con la fecha del día, p. ej. sales_report_2026-10-17.csv.
func Filename(now time.Time, ext string) string {
	return "sales_report_" + now.Format("2006-01-02") + "." + ext
}

var freeText = strings.NewReplacer(",", " ", "\r\n", " ", "\n", " ", "\r", " ")

// clean quita comas y saltos de línea; no hay comillas ni escapes.
func clean(s string) string { return freeText.Replace(s) }

// Row tupla de columnas de un lead, ya saneada.
func Row(l entity.Lead) []string {
	bill := l.BillNumber
	if bill == "" {
		bill = NoBill
	}
	return []string{
		clean(l.Date),
		clean(l.EmployeeName),
		clean(l.CustomerName),
		clean(l.MobileNumber),
		string(l.Group),
		clean(l.Description),
		string(l.Status),
		clean(bill),
	}
}

// CSV construye el reporte. ok es false si no hay leads: no se genera archivo.
func CSV(leads []entity.Lead, now time.Time) (Report, bool) {
	if len(leads) == 0 {
		return Report{}, false
	}
	lines := make([]string, 0, len(leads)+1)
	lines = append(lines, strings.Join(Columns, ","))
	for _, l := range leads {
		lines = append(lines, strings.Join(Row(l), ","))
	}
	return Report{
		Filename:    Filename(now, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Content:     []byte(strings.Join(lines, "\n")),
	}, true
}
