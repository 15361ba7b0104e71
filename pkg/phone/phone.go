// Package phone construye los enlaces de seguimiento (llamada y WhatsApp)
// a partir del móvil guardado de un lead.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Links enlaces de contacto.
type Links struct {
	E164     string `json:"e164"`
	Tel      string `json:"tel"`
	WhatsApp string `json:"whatsapp"`
}

// FollowUp normaliza el móvil a E.164 con la región por defecto (p. ej. "IN")
// y devuelve los enlaces tel: y wa.me.
func FollowUp(mobile, region string) (Links, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(mobile), strings.ToUpper(region))
	if err != nil {
		return Links{}, fmt.Errorf("phone: %q: %w", mobile, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return Links{}, fmt.Errorf("phone: %q no es un número posible en %s", mobile, region)
	}
	e164 := phonenumbers.Format(num, phonenumbers.E164)
	return Links{
		E164:     e164,
		Tel:      "tel:" + e164,
		WhatsApp: "https://wa.me/" + strings.TrimPrefix(e164, "+"),
	}, nil
}
