// Package backup programa respaldos periódicos de la colección.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/export"
	"github.com/jhoicas/conversion-pro/pkg/metrics"
)

// runTimeout límite de una ejecución del respaldo.
const runTimeout = 5 * time.Minute

// Uploader destino de los archivos de respaldo.
type Uploader interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// LeadSource colección completa de leads.
type LeadSource interface {
	All() []entity.Lead
}

// Job sube snapshots/<ts>/entries.json y, si hay leads,
// snapshots/<ts>/sales_report_<fecha>.csv.
type Job struct {
	leads   LeadSource
	up      Uploader
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	cron *cron.Cron
}

// NewJob construye el job.
func NewJob(leads LeadSource, up Uploader, log zerolog.Logger, m *metrics.Metrics) *Job {
	return &Job{leads: leads, up: up, log: log, metrics: m, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (j *Job) WithClock(now func() time.Time) *Job {
	j.now = now
	return j
}

// RunOnce ejecuta un respaldo y devuelve las claves subidas.
func (j *Job) RunOnce(ctx context.Context) ([]string, error) {
	now := j.now().UTC()
	all := j.leads.All()
	prefix := "snapshots/" + now.Format("20060102T150405Z") + "/"

	snapshot, err := json.Marshal(all)
	if err != nil {
		return nil, fmt.Errorf("backup: serializar colección: %w", err)
	}

	keys := make([]string, 0, 2)
	key := prefix + "entries.json"
	if err := j.up.Put(ctx, key, "application/json", snapshot); err != nil {
		j.metrics.Backup("error")
		return nil, err
	}
	keys = append(keys, key)

	if rep, ok := export.CSV(all, now); ok {
		key = prefix + rep.Filename
		if err := j.up.Put(ctx, key, rep.ContentType, rep.Content); err != nil {
			j.metrics.Backup("error")
			return keys, err
		}
		keys = append(keys, key)
	}

	j.metrics.Backup("ok")
	return keys, nil
}

// Start programa el job con una expresión cron estándar (5 campos).
func (j *Job) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		keys, err := j.RunOnce(ctx)
		if err != nil {
			j.log.Error().Err(err).Msg("respaldo fallido")
			return
		}
		j.log.Info().Strs("keys", keys).Msg("respaldo completado")
	})
	if err != nil {
		return fmt.Errorf("backup: programación %q inválida: %w", spec, err)
	}
	j.cron = c
	c.Start()
	j.log.Info().Str("cron", spec).Msg("respaldos programados")
	return nil
}

// Stop detiene la programación y espera a que termine la ejecución en curso.
func (j *Job) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
