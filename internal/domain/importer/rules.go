package importer

import (
	"strings"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// headerRule asocia una cabecera (ya en minúsculas) con el campo que alimenta.
// Las reglas se evalúan en orden para cada cabecera; una cabecera puede casar
// con varias y la última escritura sobre un campo gana.
type headerRule struct {
	name  string
	match func(header string) bool
	apply func(r *rowState, value string)
}

// rowState acumula el candidato de una fila mientras se recorren las cabeceras.
type rowState struct {
	rec Candidate

	statusSeen bool
	detected   entity.Status // vacío si el último valor de estado no fue válido
	statusRaw  string
}

func containsAny(h string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(h, s) {
			return true
		}
	}
	return false
}

var (
	ruleCustomerName = headerRule{
		name:  "customerName",
		match: func(h string) bool { return strings.Contains(h, "name") || h == "customer" },
		apply: func(r *rowState, v string) { r.rec.CustomerName = v },
	}

	ruleMobile = headerRule{
		name:  "mobileNumber",
		match: func(h string) bool { return containsAny(h, "mobile", "contact", "no") || h == "phone" },
		apply: func(r *rowState, v string) { r.rec.MobileNumber = v },
	}

	// ruleMobileStrict igual que ruleMobile pero sin el comodín "no".
	ruleMobileStrict = headerRule{
		name:  "mobileNumber",
		match: func(h string) bool { return containsAny(h, "mobile", "contact") || h == "phone" },
		apply: func(r *rowState, v string) { r.rec.MobileNumber = v },
	}

	ruleDate = headerRule{
		name:  "date",
		match: func(h string) bool { return strings.Contains(h, "date") },
		apply: func(r *rowState, v string) {
			if v != "" {
				r.rec.Date = v
			}
		},
	}

	ruleGroup = headerRule{
		name:  "group",
		match: func(h string) bool { return containsAny(h, "group", "category") },
		apply: func(r *rowState, v string) {
			if g, ok := ResolveGroup(v); ok {
				r.rec.Group = g
			}
		},
	}

	ruleSKU = headerRule{
		name:  "sku",
		match: func(h string) bool { return h == "sku" || containsAny(h, "product id", "model") },
		apply: func(r *rowState, v string) { r.rec.SKU = v },
	}

	ruleSKUDescription = headerRule{
		name:  "skuDescription",
		match: func(h string) bool { return containsAny(h, "sku description", "sku_description") },
		apply: func(r *rowState, v string) { r.rec.SKUDescription = v },
	}

	ruleProductDescription = headerRule{
		name:  "productDescription",
		match: func(h string) bool { return containsAny(h, "product description", "prod_desc") },
		apply: func(r *rowState, v string) { r.rec.ProductDescription = v },
	}

	// ruleDescription sólo aplica cuando la cabecera no es de descripción de
	// producto; rellena además productDescription si sigue vacío.
	ruleDescription = headerRule{
		name: "description",
		match: func(h string) bool {
			if ruleProductDescription.match(h) {
				return false
			}
			return strings.Contains(h, "description") || h == "details"
		},
		apply: func(r *rowState, v string) {
			r.rec.Description = v
			if r.rec.ProductDescription == "" {
				r.rec.ProductDescription = v
			}
		},
	}

	// ruleStatus sólo acepta "wip" y "open"; cualquier otro valor marca la
	// fila como estado detectado pero inválido.
	ruleStatus = headerRule{
		name:  "status",
		match: func(h string) bool { return strings.Contains(h, "status") },
		apply: func(r *rowState, v string) {
			r.statusSeen = true
			r.statusRaw = v
			switch strings.ToLower(v) {
			case "wip":
				r.detected = entity.StatusWIP
			case "open":
				r.detected = entity.StatusOpen
			default:
				r.detected = ""
			}
		},
	}
)

// defaultRules orden de evaluación de las reglas de cabecera.
func defaultRules(strictMobile bool) []headerRule {
	mobile := ruleMobile
	if strictMobile {
		mobile = ruleMobileStrict
	}
	return []headerRule{
		ruleCustomerName,
		mobile,
		ruleDate,
		ruleGroup,
		ruleSKU,
		ruleSKUDescription,
		ruleProductDescription,
		ruleDescription,
		ruleStatus,
	}
}

// ResolveGroup busca el grupo cuyo nombre contiene v o está contenido en v,
// sin distinguir mayúsculas. Un valor vacío resuelve al primer grupo.
func ResolveGroup(v string) (entity.ProductGroup, bool) {
	lv := strings.ToLower(strings.TrimSpace(v))
	for _, g := range entity.ProductGroups() {
		lg := strings.ToLower(string(g))
		if strings.Contains(lg, lv) || strings.Contains(lv, lg) {
			return g, true
		}
	}
	return "", false
}
