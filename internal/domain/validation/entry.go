// Package validation valida el formulario de alta y edición de leads.
// Los errores son por campo y nunca tocan el almacén.
package validation

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// EntryForm campos editables de un lead.
type EntryForm struct {
	Date               string              `json:"date"`
	EmployeeName       string              `json:"employeeName" validate:"required"`
	CustomerName       string              `json:"customerName" validate:"required"`
	MobileNumber       string              `json:"mobileNumber" validate:"mobile10"`
	Group              entity.ProductGroup `json:"group" validate:"productgroup"`
	Description        string              `json:"description"`
	ProductDescription string              `json:"productDescription"`
	SKU                string              `json:"sku"`
	SKUDescription     string              `json:"skuDescription"`
	Status             entity.Status       `json:"status" validate:"leadstatus"`
	BillNumber         string              `json:"billNumber"`
	ReasonLost         string              `json:"reasonLost"`
}

// Mensajes por campo.
var messages = map[string]string{
	"customerName": "Customer name is required",
	"employeeName": "Assigned employee is required",
	"mobileNumber": "10-digit mobile is required",
	"group":        "Select a valid product group",
	"status":       "Select a valid status",
	"billNumber":   "Bill number mandatory for closed leads",
	"reasonLost":   "Please provide a reason for the lost sale",
}

// Errors errores de validación indexados por nombre JSON del campo.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, domain.ErrInvalidInput).
func (e Errors) Is(target error) bool { return target == domain.ErrInvalidInput }

var mobileRe = regexp.MustCompile(`^\d{10}$`)

// Validator envuelve validator.Validate con las reglas del formulario.
type Validator struct {
	v *validator.Validate
}

// New registra las reglas personalizadas.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mobile10", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("productgroup", func(fl validator.FieldLevel) bool {
		return entity.ProductGroup(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("leadstatus", func(fl validator.FieldLevel) bool {
		return entity.Status(fl.Field().String()).Valid()
	})
	v.RegisterStructValidation(statusGatedFields, EntryForm{})
	return &Validator{v: v}
}

// statusGatedFields exige factura para Closed y motivo válido para Sale Lost.
func statusGatedFields(sl validator.StructLevel) {
	f := sl.Current().Interface().(EntryForm)
	switch f.Status {
	case entity.StatusClosed:
		if strings.TrimSpace(f.BillNumber) == "" {
			sl.ReportError(f.BillNumber, "billNumber", "BillNumber", "required_if", "Closed")
		}
	case entity.StatusSaleLost:
		if !entity.IsLostReason(f.ReasonLost) {
			sl.ReportError(f.ReasonLost, "reasonLost", "ReasonLost", "lostreason", "")
		}
	case entity.StatusOpen, entity.StatusWIP:
	}
}

// Entry valida el formulario; devuelve nil o Errors.
func (val *Validator) Entry(f EntryForm) error {
	err := val.v.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, dup := out[field]; dup {
			continue
		}
		msg, known := messages[field]
		if !known {
			msg = "invalid value"
		}
		out[field] = msg
	}
	return out
}
