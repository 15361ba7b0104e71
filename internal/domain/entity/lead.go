package entity

import "strings"

// ── Status ────────────────────────────────────────────────────────────────────

// Status estado del lead dentro del pipeline comercial.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusWIP      Status = "WIP"
	StatusClosed   Status = "Closed"
	StatusSaleLost Status = "Sale Lost"
)

// Statuses devuelve la enumeración completa en orden de pipeline.
func Statuses() []Status {
	return []Status{StatusOpen, StatusWIP, StatusClosed, StatusSaleLost}
}

// Valid indica si s pertenece a la enumeración.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusWIP, StatusClosed, StatusSaleLost:
		return true
	default:
		return false
	}
}

// IsTerminal indica si el lead salió del pipeline (cerrado o perdido).
func (s Status) IsTerminal() bool {
	switch s {
	case StatusClosed, StatusSaleLost:
		return true
	case StatusOpen, StatusWIP:
		return false
	default:
		return false
	}
}

// ParseStatus resuelve un estado sin distinguir mayúsculas.
func ParseStatus(v string) (Status, bool) {
	v = strings.TrimSpace(v)
	for _, s := range Statuses() {
		if strings.EqualFold(string(s), v) {
			return s, true
		}
	}
	return "", false
}

// ── ProductGroup ──────────────────────────────────────────────────────────────

// ProductGroup categoría de producto del lead.
type ProductGroup string

const (
	GroupApple             ProductGroup = "Apple Devices"
	GroupAndroid           ProductGroup = "Android Devices"
	GroupHomeAppliances    ProductGroup = "Home Appliances"
	GroupKitchenAppliances ProductGroup = "Kitchen Appliances"
	GroupEntertainment     ProductGroup = "Entertainment"
	GroupComputers         ProductGroup = "Computers"
)

// DefaultGroup grupo asignado cuando no se indica otro.
const DefaultGroup = GroupApple

// ProductGroups devuelve la enumeración en su orden canónico.
func ProductGroups() []ProductGroup {
	return []ProductGroup{
		GroupApple, GroupAndroid, GroupHomeAppliances,
		GroupKitchenAppliances, GroupEntertainment, GroupComputers,
	}
}

// Valid indica si g pertenece a la enumeración.
func (g ProductGroup) Valid() bool {
	switch g {
	case GroupApple, GroupAndroid, GroupHomeAppliances,
		GroupKitchenAppliances, GroupEntertainment, GroupComputers:
		return true
	default:
		return false
	}
}

// ── LeadOrigin ────────────────────────────────────────────────────────────────

// LeadOrigin canal por el que se creó el lead.
type LeadOrigin string

const (
	OriginManual LeadOrigin = "Manual"
	OriginBulk   LeadOrigin = "Bulk"
)

// Valid indica si o pertenece a la enumeración.
func (o LeadOrigin) Valid() bool {
	switch o {
	case OriginManual, OriginBulk:
		return true
	default:
		return false
	}
}

// ── Lost reasons ──────────────────────────────────────────────────────────────

var lostReasons = []string{
	"Price",
	"Stock not available",
	"Finance",
	"Delivery slot",
	"Planning to buy later",
}

// LostReasons motivos admitidos para una venta perdida.
func LostReasons() []string {
	out := make([]string, len(lostReasons))
	copy(out, lostReasons)
	return out
}

// IsLostReason indica si r es un motivo admitido.
func IsLostReason(r string) bool {
	for _, v := range lostReasons {
		if v == r {
			return true
		}
	}
	return false
}

// ── Lead ──────────────────────────────────────────────────────────────────────

// Lead oportunidad de venta registrada por un asociado.
// Los nombres JSON son el formato persistido de la colección.
type Lead struct {
	ID                 string       `json:"id"`
	Date               string       `json:"date"`
	EmployeeName       string       `json:"employeeName"`
	EmployeeID         string       `json:"employeeId"`
	CustomerName       string       `json:"customerName"`
	MobileNumber       string       `json:"mobileNumber"`
	Group              ProductGroup `json:"group"`
	Description        string       `json:"description"`
	ProductDescription string       `json:"productDescription,omitempty"`
	SKU                string       `json:"sku,omitempty"`
	SKUDescription     string       `json:"skuDescription,omitempty"`
	Status             Status       `json:"status"`
	Origin             LeadOrigin   `json:"origin"`
	BillNumber         string       `json:"billNumber,omitempty"`
	ReasonLost         string       `json:"reasonLost,omitempty"`
	CreatedAt          int64        `json:"createdAt"` // epoch en milisegundos
}

// VisibleTo indica si el usuario puede ver el lead: los administradores ven
// todo, el dueño ve lo suyo y los leads abiertos son visibles para todos.
func (l Lead) VisibleTo(u User) bool {
	return u.IsAdmin() || l.EmployeeID == u.ID || !l.Status.IsTerminal()
}
