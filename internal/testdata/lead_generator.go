// Package testdata genera leads sintéticos para semillas y pruebas.
package testdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/importer"
)

// LeadGeneratorConfig parámetros de generación.
type LeadGeneratorConfig struct {
	Count     int
	Seed      int64     // 0 = aleatorio
	Until     time.Time // fecha más reciente; cero = hoy
	Days      int       // ventana hacia atrás; por defecto 30
	WIPChance float64   // probabilidad de WIP (el resto queda Open)
}

// products catálogo por grupo: descripción, producto, SKU base.
var products = map[entity.ProductGroup][][3]string{
	entity.GroupApple: {
		{"iPhone 15", "Apple iPhone 15 128GB", "APL-IP15"},
		{"iPad Air", "Apple iPad Air 11 M2", "APL-IPA"},
		{"MacBook Air", "Apple MacBook Air 13 M3", "APL-MBA"},
	},
	entity.GroupAndroid: {
		{"Galaxy S24", "Samsung Galaxy S24 256GB", "SAM-S24"},
		{"Pixel 8", "Google Pixel 8 128GB", "GOO-PX8"},
		{"Redmi Note 13", "Xiaomi Redmi Note 13 Pro", "XIA-RN13"},
	},
	entity.GroupComputers: {
		{"Laptop", "Dell Inspiron 15 i5", "DEL-INS15"},
		{"Gaming laptop", "ASUS TUF F15 RTX 4050", "ASU-TUF15"},
	},
	entity.GroupEntertainment: {
		{"Smart TV 55", "Sony Bravia 55 4K", "SON-B55"},
		{"Soundbar", "JBL Bar 5.1 Surround", "JBL-B51"},
	},
	entity.GroupHomeAppliances: {
		{"Washing machine", "LG 8kg Front Load", "LG-FL8"},
		{"Refrigerator", "Samsung 340L Double Door", "SAM-R340"},
	},
	entity.GroupKitchenAppliances: {
		{"Microwave", "Panasonic 27L Convection", "PAN-MW27"},
		{"Mixer grinder", "Philips 750W Mixer", "PHI-MG750"},
	},
}

// GenerateCandidates devuelve Count candidatos válidos para AddBatch.
func GenerateCandidates(cfg LeadGeneratorConfig) []importer.Candidate {
	f := gofakeit.New(cfg.Seed)
	until := cfg.Until
	if until.IsZero() {
		until = time.Now()
	}
	days := cfg.Days
	if days <= 0 {
		days = 30
	}
	since := until.AddDate(0, 0, -days)

	groups := entity.ProductGroups()
	out := make([]importer.Candidate, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		g := groups[f.Number(0, len(groups)-1)]
		catalog := products[g]
		p := catalog[f.Number(0, len(catalog)-1)]

		status := entity.StatusOpen
		if f.Float64() < cfg.WIPChance {
			status = entity.StatusWIP
		}
		out = append(out, importer.Candidate{
			Date:               f.DateRange(since, until).Format("2006-01-02"),
			CustomerName:       f.Name(),
			MobileNumber:       Mobile(f),
			Group:              g,
			Description:        p[0],
			ProductDescription: p[1],
			SKU:                fmt.Sprintf("%s-%03d", p[2], f.Number(1, 999)),
			SKUDescription:     strings.ToUpper(p[0]),
			Status:             status,
		})
	}
	return out
}

// Mobile número móvil de 10 dígitos que empieza por 6-9.
func Mobile(f *gofakeit.Faker) string {
	return fmt.Sprintf("%d%s", f.Number(6, 9), f.Numerify("#########"))
}

// CSV serializa los candidatos con las cabeceras que reconoce el importador.
func CSV(cands []importer.Candidate) string {
	var b strings.Builder
	b.WriteString("Date,Customer Name,Mobile No,Group,Description,Product Description,SKU,SKU Description,Status\n")
	for _, c := range cands {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			c.Date, c.CustomerName, c.MobileNumber, c.Group, c.Description,
			c.ProductDescription, c.SKU, c.SKUDescription, c.Status)
	}
	return b.String()
}
