// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "conversion_pro"

// Metrics contadores del servicio. Un valor nil es válido y no registra nada.
type Metrics struct {
	reg *prometheus.Registry

	LeadsImported   prometheus.Counter
	RowsRejected    *prometheus.CounterVec
	LeadMutations   *prometheus.CounterVec
	StoreReloads    prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	BackupsUploaded *prometheus.CounterVec
}

// New crea un registro propio (no el global) con todos los contadores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		LeadsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "leads_imported_total",
			Help: "Leads creados por importación masiva.",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "import_rows_rejected_total",
			Help: "Filas rechazadas por el parser de importación.",
		}, []string{"reason"}),
		LeadMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "lead_mutations_total",
			Help: "Mutaciones locales de la colección de leads.",
		}, []string{"op"}),
		StoreReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "store_reloads_total",
			Help: "Recargas completas por cambios de otro contexto.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Peticiones HTTP atendidas.",
		}, []string{"method", "status"}),
		BackupsUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "backups_total",
			Help: "Respaldos programados por resultado.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.LeadsImported, m.RowsRejected, m.LeadMutations,
		m.StoreReloads, m.HTTPRequests, m.BackupsUploaded,
	)
	return m
}

// Handler sirve /metrics para este registro.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry expone el registro (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ── helpers nil-safe ──────────────────────────────────────────────────────────

// Mutation cuenta una mutación local.
func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.LeadMutations.WithLabelValues(op).Inc()
}

// Reload cuenta una recarga externa.
func (m *Metrics) Reload() {
	if m == nil {
		return
	}
	m.StoreReloads.Inc()
}

// Imported cuenta leads confirmados desde una importación.
func (m *Metrics) Imported(n int) {
	if m == nil {
		return
	}
	m.LeadsImported.Add(float64(n))
}

// Rejected cuenta una fila rechazada.
func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.RowsRejected.WithLabelValues(reason).Inc()
}

// Request cuenta una petición HTTP.
func (m *Metrics) Request(method, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, status).Inc()
}

// Backup cuenta un respaldo ("ok" | "error").
func (m *Metrics) Backup(result string) {
	if m == nil {
		return
	}
	m.BackupsUploaded.WithLabelValues(result).Inc()
}
