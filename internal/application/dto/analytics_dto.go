package dto

// GroupPerformanceDTO desempeño de un grupo de producto.
type GroupPerformanceDTO struct {
	Group  string `json:"group"`
	Count  int    `json:"count"`
	Closed int    `json:"closed"`
	Rate   int    `json:"rate"` // % entero
}

// SummaryResponse resumen del administrador.
type SummaryResponse struct {
	Total          int                   `json:"total"`
	Open           int                   `json:"open"`
	WIP            int                   `json:"wip"`
	Closed         int                   `json:"closed"`
	SaleLost       int                   `json:"sale_lost"`
	ConversionRate string                `json:"conversion_rate"` // un decimal, p. ej. "12.5"
	Groups         []GroupPerformanceDTO `json:"groups"`
}
