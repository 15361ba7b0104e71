// Package importer convierte texto delimitado por comas (o filas de una hoja
// de cálculo) en leads candidatos, aplicando la detección heurística de
// columnas, la validación por fila y la política de estados de importación.
package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// Motivos de rechazo por fila.
const (
	ReasonMissingCustomer = "Missing Customer Name"
	ReasonInvalidMobile   = "Mobile must be 10 digits"
	ReasonInvalidGroup    = "Invalid Group"
	ReasonInvalidStatus   = "Status must be WIP or Open"
)

var nonDigit = regexp.MustCompile(`\D`)

// Candidate lead pendiente de confirmar. No tiene id, dueño ni origen todavía.
type Candidate struct {
	Date               string              `json:"date"`
	CustomerName       string              `json:"customerName"`
	MobileNumber       string              `json:"mobileNumber"`
	Group              entity.ProductGroup `json:"group"`
	Description        string              `json:"description"`
	ProductDescription string              `json:"productDescription"`
	SKU                string              `json:"sku"`
	SKUDescription     string              `json:"skuDescription"`
	Status             entity.Status       `json:"status"`
}

// RowError rechazo de una fila de datos (Row es 1-based, sin contar la cabecera).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

// Error devuelve el texto legible, p. ej. "Row 3: Mobile must be 10 digits".
func (e RowError) Error() string {
	switch e.Reason {
	case ReasonInvalidGroup:
		return fmt.Sprintf("Row %d: %s %q", e.Row, e.Reason, e.Value)
	case ReasonInvalidStatus:
		return fmt.Sprintf("Row %d: %s (skipped %q)", e.Row, e.Reason, e.Value)
	default:
		return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
	}
}

// Result salida del parser.
type Result struct {
	Records  []Candidate
	Rejected []RowError
}

// Messages devuelve los rechazos como texto.
func (r Result) Messages() []string {
	out := make([]string, 0, len(r.Rejected))
	for _, e := range r.Rejected {
		out = append(out, e.Error())
	}
	return out
}

// Options configura el parser.
type Options struct {
	// DefaultStatus se aplica a las filas sin estado detectado (Open o WIP).
	DefaultStatus entity.Status
	// Today fecha por defecto (YYYY-MM-DD) para filas sin fecha.
	Today string
	// StrictMobileHeaders desactiva la regla que trata cualquier cabecera
	// con "no" como columna de móvil.
	StrictMobileHeaders bool
}

// Parser aplica las reglas de cabecera y la validación por fila.
type Parser struct {
	opts  Options
	rules []headerRule
}

// NewParser construye el parser. Un DefaultStatus vacío equivale a Open.
func NewParser(opts Options) *Parser {
	if opts.DefaultStatus == "" {
		opts.DefaultStatus = entity.StatusOpen
	}
	return &Parser{opts: opts, rules: defaultRules(opts.StrictMobileHeaders)}
}

// ParseText procesa texto CSV sin comillas: líneas separadas por \r?\n,
// valores separados por comas, líneas en blanco ignoradas. Una línea con sólo
// comas es una fila de datos y cuenta para la numeración.
func (p *Parser) ParseText(text string) Result {
	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}
	return p.ParseRows(rows)
}

// ParseRows procesa filas ya separadas en celdas; la primera es la cabecera.
// Todas las filas siguientes se validan y numeran en orden.
func (p *Parser) ParseRows(rows [][]string) Result {
	res := Result{Records: []Candidate{}, Rejected: []RowError{}}
	if len(rows) < 2 {
		return res
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for i := 1; i < len(rows); i++ {
		rec, rowErr := p.parseRow(i, headers, rows[i])
		if rowErr != nil {
			res.Rejected = append(res.Rejected, *rowErr)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func (p *Parser) parseRow(n int, headers, values []string) (Candidate, *RowError) {
	st := rowState{rec: Candidate{
		Date:   p.opts.Today,
		Status: p.opts.DefaultStatus,
		Group:  entity.DefaultGroup,
	}}

	for idx, h := range headers {
		val := ""
		if idx < len(values) {
			val = strings.TrimSpace(values[idx])
		}
		for _, rule := range p.rules {
			if rule.match(h) {
				rule.apply(&st, val)
			}
		}
	}
	if st.detected != "" {
		st.rec.Status = st.detected
	}

	digits := nonDigit.ReplaceAllString(st.rec.MobileNumber, "")
	switch {
	case st.rec.CustomerName == "":
		return Candidate{}, &RowError{Row: n, Reason: ReasonMissingCustomer}
	case len(digits) != 10:
		return Candidate{}, &RowError{Row: n, Reason: ReasonInvalidMobile, Value: st.rec.MobileNumber}
	case !st.rec.Group.Valid():
		return Candidate{}, &RowError{Row: n, Reason: ReasonInvalidGroup, Value: string(st.rec.Group)}
	case st.statusSeen && st.detected == "":
		return Candidate{}, &RowError{Row: n, Reason: ReasonInvalidStatus, Value: st.statusRaw}
	}

	st.rec.MobileNumber = digits
	return st.rec, nil
}
