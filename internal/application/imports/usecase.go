// Package imports gestiona las vistas previas de importación masiva: subir,
// revisar, ajustar y confirmar un lote antes de que toque la colección.
package imports

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/application/dto"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/importer"
	"github.com/jhoicas/conversion-pro/pkg/metrics"
)

// DefaultTTL vigencia de una vista previa sin actividad.
const DefaultTTL = 30 * time.Minute

var zipMagic = []byte("PK\x03\x04")

// Options configuración del caso de uso.
type Options struct {
	DefaultStatus       entity.Status
	StrictMobileHeaders bool
	TTL                 time.Duration
}

type pending struct {
	preview *importer.Preview
	owner   string
	expires time.Time
}

// ImportUseCase vistas previas en memoria, una por id.
type ImportUseCase struct {
	book    *leads.Book
	sheets  SpreadsheetReader
	opts    Options
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	previews map[string]*pending
}

// NewImportUseCase construye el caso de uso. sheets puede ser nil; en ese
// caso sólo se aceptan archivos de texto.
func NewImportUseCase(book *leads.Book, sheets SpreadsheetReader, opts Options, log zerolog.Logger, m *metrics.Metrics) *ImportUseCase {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if !importer.ValidDefaultStatus(opts.DefaultStatus) {
		opts.DefaultStatus = entity.StatusOpen
	}
	return &ImportUseCase{
		book:     book,
		sheets:   sheets,
		opts:     opts,
		log:      log,
		metrics:  m,
		now:      time.Now,
		previews: map[string]*pending{},
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ImportUseCase) WithClock(now func() time.Time) *ImportUseCase {
	uc.now = now
	return uc
}

func requireAdmin(user entity.User) error {
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// IsSpreadsheet indica si el archivo es un libro xlsx (extensión o firma zip).
func IsSpreadsheet(filename string, content []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return true
	}
	return bytes.HasPrefix(content, zipMagic)
}

// Upload parsea el archivo y crea una vista previa. defaultStatus vacío usa
// el configurado.
func (uc *ImportUseCase) Upload(_ context.Context, user entity.User, filename string, content []byte, defaultStatus string) (*dto.ImportPreviewResponse, error) {
	if err := requireAdmin(user); err != nil {
		return nil, err
	}
	status := uc.opts.DefaultStatus
	if defaultStatus != "" {
		status = entity.Status(defaultStatus)
		if !importer.ValidDefaultStatus(status) {
			return nil, fmt.Errorf("estado por defecto %q: %w", defaultStatus, domain.ErrInvalidInput)
		}
	}

	parser := importer.NewParser(importer.Options{
		DefaultStatus:       status,
		Today:               uc.now().Format("2006-01-02"),
		StrictMobileHeaders: uc.opts.StrictMobileHeaders,
	})

	var res importer.Result
	if IsSpreadsheet(filename, content) {
		if uc.sheets == nil {
			return nil, fmt.Errorf("formato xlsx no soportado: %w", domain.ErrInvalidInput)
		}
		rows, err := uc.sheets.ReadRows(content)
		if err != nil {
			return nil, fmt.Errorf("leer hoja: %w: %v", domain.ErrInvalidInput, err)
		}
		res = parser.ParseRows(rows)
	} else {
		text, err := importer.DecodeText(content)
		if err != nil {
			return nil, fmt.Errorf("decodificar archivo: %w: %v", domain.ErrInvalidInput, err)
		}
		res = parser.ParseText(text)
	}

	for _, r := range res.Rejected {
		uc.metrics.Rejected(r.Reason)
	}

	p := &pending{
		preview: importer.NewPreview(filename, status, res),
		owner:   user.ID,
		expires: uc.now().Add(uc.opts.TTL),
	}
	id := uuid.NewString()

	uc.mu.Lock()
	uc.evictExpired()
	uc.previews[id] = p
	uc.mu.Unlock()

	uc.log.Info().
		Str("preview_id", id).
		Str("filename", filename).
		Int("records", len(res.Records)).
		Int("rejected", len(res.Rejected)).
		Msg("vista previa de importación creada")

	return toResponse(id, p), nil
}

// evictExpired borra las vistas previas vencidas. Debe llamarse con mu tomado.
func (uc *ImportUseCase) evictExpired() {
	now := uc.now()
	for id, p := range uc.previews {
		if now.After(p.expires) {
			delete(uc.previews, id)
		}
	}
}

// with ejecuta fn sobre la vista previa id y renueva su vigencia.
func (uc *ImportUseCase) with(user entity.User, id string, fn func(p *importer.Preview) error) (*dto.ImportPreviewResponse, error) {
	if err := requireAdmin(user); err != nil {
		return nil, err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.evictExpired()
	p, ok := uc.previews[id]
	if !ok || p.owner != user.ID {
		return nil, domain.ErrPreviewNotFound
	}
	if err := fn(p.preview); err != nil {
		return nil, err
	}
	p.expires = uc.now().Add(uc.opts.TTL)
	return toResponse(id, p), nil
}

// Get devuelve la vista previa.
func (uc *ImportUseCase) Get(user entity.User, id string) (*dto.ImportPreviewResponse, error) {
	return uc.with(user, id, func(*importer.Preview) error { return nil })
}

// SetDefaultStatus cambia el estado por defecto (Open|WIP) y reetiqueta todas las filas.
func (uc *ImportUseCase) SetDefaultStatus(user entity.User, id, status string) (*dto.ImportPreviewResponse, error) {
	return uc.with(user, id, func(p *importer.Preview) error {
		return p.SetDefaultStatus(entity.Status(status))
	})
}

// DeleteRow quita una fila aceptada de la vista previa.
func (uc *ImportUseCase) DeleteRow(user entity.User, id string, index int) (*dto.ImportPreviewResponse, error) {
	return uc.with(user, id, func(p *importer.Preview) error { return p.DeleteRow(index) })
}

// Discard descarta la vista previa sin importar nada.
func (uc *ImportUseCase) Discard(user entity.User, id string) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	p, ok := uc.previews[id]
	if !ok || p.owner != user.ID {
		return domain.ErrPreviewNotFound
	}
	delete(uc.previews, id)
	return nil
}

// Commit agrega las filas aceptadas a la colección y borra la vista previa.
// Si la escritura falla la vista previa se conserva para reintentar.
func (uc *ImportUseCase) Commit(ctx context.Context, user entity.User, id string) (*dto.ImportCommitResponse, error) {
	if err := requireAdmin(user); err != nil {
		return nil, err
	}
	uc.mu.Lock()
	uc.evictExpired()
	p, ok := uc.previews[id]
	if !ok || p.owner != user.ID {
		uc.mu.Unlock()
		return nil, domain.ErrPreviewNotFound
	}
	delete(uc.previews, id)
	uc.mu.Unlock()

	added, err := uc.book.AddBatch(ctx, user, p.preview.Records)
	if err != nil {
		uc.mu.Lock()
		uc.previews[id] = p
		uc.mu.Unlock()
		return nil, fmt.Errorf("confirmar importación: %w", err)
	}

	uc.log.Info().Str("preview_id", id).Int("imported", len(added)).Msg("importación confirmada")
	return &dto.ImportCommitResponse{Imported: len(added), Leads: leads.ToLeadResponses(added)}, nil
}

// ── Mapeo ─────────────────────────────────────────────────────────────────────

func toResponse(id string, p *pending) *dto.ImportPreviewResponse {
	recs := make([]dto.CandidateResponse, 0, len(p.preview.Records))
	for i, c := range p.preview.Records {
		recs = append(recs, dto.CandidateResponse{
			Index:              i,
			Date:               c.Date,
			CustomerName:       c.CustomerName,
			MobileNumber:       c.MobileNumber,
			Group:              string(c.Group),
			Description:        c.Description,
			ProductDescription: c.ProductDescription,
			SKU:                c.SKU,
			SKUDescription:     c.SKUDescription,
			Status:             string(c.Status),
		})
	}
	return &dto.ImportPreviewResponse{
		ID:            id,
		Filename:      p.preview.Filename,
		DefaultStatus: string(p.preview.DefaultStatus),
		Records:       recs,
		Rejected:      importer.Result{Rejected: p.preview.Rejected}.Messages(),
		ExpiresAt:     p.expires.UnixMilli(),
	}
}

// ParseIndex convierte el índice de fila de la ruta.
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("índice %q: %w", s, domain.ErrInvalidInput)
	}
	return n, nil
}
