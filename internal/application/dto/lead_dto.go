package dto

// LeadRequest entrada para crear o editar un lead. Las reglas de validación
// (móvil de 10 dígitos, factura para Closed, motivo para Sale Lost) viven en
// el dominio; aquí sólo se transporta.
type LeadRequest struct {
	Date               string `json:"date"`          // YYYY-MM-DD; por defecto hoy
	EmployeeName       string `json:"employee_name"` // por defecto el nombre del asociado
	CustomerName       string `json:"customer_name"`
	MobileNumber       string `json:"mobile_number"`
	Group              string `json:"group"` // por defecto Apple Devices
	Description        string `json:"description"`
	ProductDescription string `json:"product_description"`
	SKU                string `json:"sku"`
	SKUDescription     string `json:"sku_description"`
	Status             string `json:"status"` // por defecto Open
	BillNumber         string `json:"bill_number"`
	ReasonLost         string `json:"reason_lost"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID                 string `json:"id"`
	Date               string `json:"date"`
	EmployeeName       string `json:"employee_name"`
	EmployeeID         string `json:"employee_id"`
	CustomerName       string `json:"customer_name"`
	MobileNumber       string `json:"mobile_number"`
	Group              string `json:"group"`
	Description        string `json:"description"`
	ProductDescription string `json:"product_description,omitempty"`
	SKU                string `json:"sku,omitempty"`
	SKUDescription     string `json:"sku_description,omitempty"`
	Status             string `json:"status"`
	Origin             string `json:"origin"`
	BillNumber         string `json:"bill_number,omitempty"`
	ReasonLost         string `json:"reason_lost,omitempty"`
	CreatedAt          int64  `json:"created_at"`
}

// LeadListQuery parámetros de GET /api/leads.
type LeadListQuery struct {
	View     string `query:"view"`      // manual | bulk
	Search   string `query:"search"`
	Status   string `query:"status"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"` // 25, 50, 100, 250
}

// LeadPageResponse página de la lista con la selección vigente.
type LeadPageResponse struct {
	View     string         `json:"view"`
	Items    []LeadResponse `json:"items"`
	Selected []string       `json:"selected"`
	PageResponse
}

// SelectionRequest id a alternar en la selección.
type SelectionRequest struct {
	ID string `json:"id" validate:"required"`
}

// SelectionResponse selección vigente.
type SelectionResponse struct {
	Selected []string `json:"selected"`
}

// FollowUpResponse enlaces de contacto para un lead abierto.
type FollowUpResponse struct {
	LeadID   string `json:"lead_id"`
	Customer string `json:"customer"`
	E164     string `json:"e164"`
	Tel      string `json:"tel"`
	WhatsApp string `json:"whatsapp"`
}

// MetaResponse enumeraciones para construir formularios y filtros.
type MetaResponse struct {
	Statuses       []string `json:"statuses"`
	Groups         []string `json:"groups"`
	LostReasons    []string `json:"lost_reasons"`
	PageSizes      []int    `json:"page_sizes"`
	ImportStatuses []string `json:"import_statuses"`
}
