// Package stats agrega la colección de leads para el resumen del administrador.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// StatusCounts conteo por estado.
type StatusCounts struct {
	Open     int `json:"open"`
	WIP      int `json:"wip"`
	Closed   int `json:"closed"`
	SaleLost int `json:"saleLost"`
}

// Of devuelve el conteo de un estado.
func (c StatusCounts) Of(s entity.Status) int {
	switch s {
	case entity.StatusOpen:
		return c.Open
	case entity.StatusWIP:
		return c.WIP
	case entity.StatusClosed:
		return c.Closed
	case entity.StatusSaleLost:
		return c.SaleLost
	default:
		return 0
	}
}

// GroupStat desempeño de un grupo de producto.
type GroupStat struct {
	Group  entity.ProductGroup `json:"group"`
	Count  int                 `json:"count"`
	Closed int                 `json:"closed"`
	Rate   int                 `json:"rate"` // porcentaje entero
}

// Summary cifras del resumen.
type Summary struct {
	Total          int             `json:"total"`
	ByStatus       StatusCounts    `json:"byStatus"`
	ConversionRate decimal.Decimal `json:"conversionRate"` // porcentaje con un decimal
	Groups         []GroupStat     `json:"groups"`
}

// ConversionLabel tasa de conversión con un decimal, p. ej. "12.5".
func (s Summary) ConversionLabel() string { return s.ConversionRate.StringFixed(1) }

// Summarize calcula totales, conteo por estado, tasa de conversión y
// desempeño por grupo. Los grupos sin leads no aparecen.
func Summarize(leads []entity.Lead) Summary {
	var sum Summary
	sum.Total = len(leads)

	type acc struct{ count, closed int }
	perGroup := make(map[entity.ProductGroup]*acc, len(entity.ProductGroups()))

	for _, l := range leads {
		switch l.Status {
		case entity.StatusOpen:
			sum.ByStatus.Open++
		case entity.StatusWIP:
			sum.ByStatus.WIP++
		case entity.StatusClosed:
			sum.ByStatus.Closed++
		case entity.StatusSaleLost:
			sum.ByStatus.SaleLost++
		}

		a, ok := perGroup[l.Group]
		if !ok {
			a = &acc{}
			perGroup[l.Group] = a
		}
		a.count++
		if l.Status == entity.StatusClosed {
			a.closed++
		}
	}

	sum.ConversionRate = percent(sum.ByStatus.Closed, sum.Total).Round(1)

	sum.Groups = make([]GroupStat, 0, len(perGroup))
	for _, g := range entity.ProductGroups() {
		a, ok := perGroup[g]
		if !ok || a.count == 0 {
			continue
		}
		sum.Groups = append(sum.Groups, GroupStat{
			Group:  g,
			Count:  a.count,
			Closed: a.closed,
			Rate:   int(percent(a.closed, a.count).Round(0).IntPart()),
		})
	}
	return sum
}

func percent(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}
