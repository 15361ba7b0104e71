package dto

// CandidateResponse fila aceptada de la vista previa.
type CandidateResponse struct {
	Index              int    `json:"index"`
	Date               string `json:"date"`
	CustomerName       string `json:"customer_name"`
	MobileNumber       string `json:"mobile_number"`
	Group              string `json:"group"`
	Description        string `json:"description"`
	ProductDescription string `json:"product_description"`
	SKU                string `json:"sku"`
	SKUDescription     string `json:"sku_description"`
	Status             string `json:"status"`
}

// ImportPreviewResponse lote pendiente de confirmar.
type ImportPreviewResponse struct {
	ID            string              `json:"id"`
	Filename      string              `json:"filename"`
	DefaultStatus string              `json:"default_status"`
	Records       []CandidateResponse `json:"records"`
	Rejected      []string            `json:"rejected"`
	ExpiresAt     int64               `json:"expires_at"`
}

// DefaultStatusRequest cambio del estado por defecto de la vista previa.
type DefaultStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Open WIP"`
}

// ImportCommitResponse resultado de confirmar la importación.
type ImportCommitResponse struct {
	Imported int            `json:"imported"`
	Leads    []LeadResponse `json:"leads"`
}
