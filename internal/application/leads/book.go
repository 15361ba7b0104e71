// Package leads mantiene la colección de leads en memoria, sincronizada con
// el almacén: cada mutación reescribe la colección entera y cada cambio de
// otro contexto la recarga completa (gana la última escritura).
package leads

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
	"github.com/jhoicas/conversion-pro/internal/domain/importer"
	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/domain/validation"
	"github.com/jhoicas/conversion-pro/pkg/metrics"
)

// Origen de un cambio notificado a los listeners.
const (
	SourceLocal    = "local"
	SourceExternal = "external"
)

// Listener recibe el tamaño de la colección tras cada cambio.
type Listener func(count int, source string)

// Book colección de leads del proceso.
type Book struct {
	repo     repository.LeadRepository
	validate *validation.Validator
	log      zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string

	mu        sync.RWMutex
	leads     []entity.Lead
	listeners []Listener
	stop      func()
}

// NewBook construye la colección; Start la carga.
func NewBook(repo repository.LeadRepository, log zerolog.Logger, m *metrics.Metrics) *Book {
	return &Book{
		repo:     repo,
		validate: validation.New(),
		log:      log,
		metrics:  m,
		now:      time.Now,
		newID:    uuid.NewString,
		leads:    []entity.Lead{},
	}
}

// WithClock reemplaza el reloj (tests).
func (b *Book) WithClock(now func() time.Time) *Book {
	b.now = now
	return b
}

// Start carga la colección y se suscribe a cambios externos.
func (b *Book) Start(ctx context.Context) error {
	loaded, err := b.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("cargar leads: %w", err)
	}
	b.mu.Lock()
	b.leads = loaded
	b.mu.Unlock()

	stop, err := b.repo.OnChange(ctx, func() { b.reload(context.Background()) })
	if err != nil {
		return fmt.Errorf("suscribir cambios: %w", err)
	}
	b.mu.Lock()
	b.stop = stop
	b.mu.Unlock()

	b.log.Info().Int("leads", len(loaded)).Msg("colección cargada")
	return nil
}

// Stop cancela la suscripción.
func (b *Book) Stop() {
	b.mu.Lock()
	stop := b.stop
	b.stop = nil
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// OnChange registra un listener (hub de tiempo real, etc.).
func (b *Book) OnChange(l Listener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

// reload reemplaza la colección con lo que haya en el almacén. Un error
// deja la vista anterior; nunca es fatal.
func (b *Book) reload(ctx context.Context) {
	loaded, err := b.repo.Load(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("recargar leads; se conserva la vista anterior")
		return
	}
	b.mu.Lock()
	b.leads = loaded
	b.mu.Unlock()
	b.metrics.Reload()
	b.log.Debug().Int("leads", len(loaded)).Msg("colección recargada por cambio externo")
	b.notify(len(loaded), SourceExternal)
}

func (b *Book) notify(count int, source string) {
	b.mu.RLock()
	ls := append([]Listener(nil), b.listeners...)
	b.mu.RUnlock()
	for _, l := range ls {
		l(count, source)
	}
}

// mutate aplica fn sobre una copia y persiste la colección completa.
// Si fn o la escritura fallan, la colección en memoria no cambia.
func (b *Book) mutate(ctx context.Context, op string, fn func(cur []entity.Lead) ([]entity.Lead, error)) error {
	b.mu.Lock()
	cur := make([]entity.Lead, len(b.leads))
	copy(cur, b.leads)
	next, err := fn(cur)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	if err := b.repo.ReplaceAll(ctx, next); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	b.leads = next
	count := len(next)
	b.mu.Unlock()

	b.metrics.Mutation(op)
	b.notify(count, SourceLocal)
	return nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// All copia de la colección completa (más recientes primero).
func (b *Book) All() []entity.Lead {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Lead, len(b.leads))
	copy(out, b.leads)
	return out
}

// Len tamaño de la colección.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.leads)
}

// Get devuelve el lead si existe y el usuario puede verlo.
func (b *Book) Get(user entity.User, id string) (entity.Lead, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.leads {
		if l.ID == id && l.VisibleTo(user) {
			return l, nil
		}
	}
	return entity.Lead{}, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
}

// ── Alta y edición ────────────────────────────────────────────────────────────

func (b *Book) today() string { return b.now().Format("2006-01-02") }

// withDefaults completa los valores por defecto del formulario manual.
func (b *Book) withDefaults(user entity.User, f validation.EntryForm) validation.EntryForm {
	if f.Date == "" {
		f.Date = b.today()
	}
	if f.EmployeeName == "" && !user.IsAdmin() {
		f.EmployeeName = user.Name
	}
	if f.Group == "" {
		f.Group = entity.DefaultGroup
	}
	if f.Status == "" {
		f.Status = entity.StatusOpen
	}
	return f
}

func applyForm(l *entity.Lead, f validation.EntryForm) {
	l.Date = f.Date
	l.EmployeeName = f.EmployeeName
	l.CustomerName = f.CustomerName
	l.MobileNumber = f.MobileNumber
	l.Group = f.Group
	l.Description = f.Description
	l.ProductDescription = f.ProductDescription
	l.SKU = f.SKU
	l.SKUDescription = f.SKUDescription
	l.Status = f.Status
	l.BillNumber = f.BillNumber
	l.ReasonLost = f.ReasonLost
}

// Create valida y antepone un lead manual.
func (b *Book) Create(ctx context.Context, user entity.User, f validation.EntryForm) (entity.Lead, error) {
	f = b.withDefaults(user, f)
	if err := b.validate.Entry(f); err != nil {
		return entity.Lead{}, err
	}
	lead := entity.Lead{
		ID:         b.newID(),
		EmployeeID: user.ID,
		Origin:     entity.OriginManual,
		CreatedAt:  b.now().UnixMilli(),
	}
	applyForm(&lead, f)

	err := b.mutate(ctx, "create", func(cur []entity.Lead) ([]entity.Lead, error) {
		return append([]entity.Lead{lead}, cur...), nil
	})
	if err != nil {
		return entity.Lead{}, err
	}
	return lead, nil
}

// Update reemplaza los campos editables del lead. id, dueño, origen y
// fecha de creación no cambian.
func (b *Book) Update(ctx context.Context, user entity.User, id string, f validation.EntryForm) (entity.Lead, error) {
	existing, err := b.Get(user, id)
	if err != nil {
		return entity.Lead{}, err
	}
	if f.Date == "" {
		f.Date = existing.Date
	}
	f = b.withDefaults(user, f)
	if err := b.validate.Entry(f); err != nil {
		return entity.Lead{}, err
	}

	var updated entity.Lead
	err = b.mutate(ctx, "update", func(cur []entity.Lead) ([]entity.Lead, error) {
		for i := range cur {
			if cur[i].ID == id {
				applyForm(&cur[i], f)
				updated = cur[i]
				return cur, nil
			}
		}
		// borrado por otro contexto entre Get y mutate
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	})
	if err != nil {
		return entity.Lead{}, err
	}
	return updated, nil
}

// ── Borrado ───────────────────────────────────────────────────────────────────

func requireAdmin(user entity.User) error {
	if !user.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// Delete borra un lead (sólo administradores).
func (b *Book) Delete(ctx context.Context, user entity.User, id string) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	return b.mutate(ctx, "delete", func(cur []entity.Lead) ([]entity.Lead, error) {
		for i := range cur {
			if cur[i].ID == id {
				return append(cur[:i], cur[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	})
}

// DeleteMany borra los ids indicados; los inexistentes se ignoran.
func (b *Book) DeleteMany(ctx context.Context, user entity.User, ids []string) (int, error) {
	if err := requireAdmin(user); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return b.removeWhere(ctx, "delete_many", func(l entity.Lead) bool {
		_, ok := drop[l.ID]
		return ok
	})
}

// WipeOrigin borra toda una partición (Manual o Bulk). Requiere confirmación.
func (b *Book) WipeOrigin(ctx context.Context, user entity.User, origin entity.LeadOrigin, confirmed bool) (int, error) {
	if err := requireAdmin(user); err != nil {
		return 0, err
	}
	if !origin.Valid() {
		return 0, fmt.Errorf("origen %q: %w", origin, domain.ErrInvalidInput)
	}
	if !confirmed {
		return 0, domain.ErrConfirmationRequired
	}
	n, err := b.removeWhere(ctx, "wipe_"+string(origin), func(l entity.Lead) bool { return l.Origin == origin })
	if err == nil {
		b.log.Warn().Str("origin", string(origin)).Int("deleted", n).Str("by", user.ID).Msg("partición borrada")
	}
	return n, err
}

// WipeAll borra la colección completa. Requiere confirmación.
func (b *Book) WipeAll(ctx context.Context, user entity.User, confirmed bool) (int, error) {
	if err := requireAdmin(user); err != nil {
		return 0, err
	}
	if !confirmed {
		return 0, domain.ErrConfirmationRequired
	}
	n, err := b.removeWhere(ctx, "wipe_all", func(entity.Lead) bool { return true })
	if err == nil {
		b.log.Warn().Int("deleted", n).Str("by", user.ID).Msg("colección borrada")
	}
	return n, err
}

func (b *Book) removeWhere(ctx context.Context, op string, match func(entity.Lead) bool) (int, error) {
	removed := 0
	err := b.mutate(ctx, op, func(cur []entity.Lead) ([]entity.Lead, error) {
		next := make([]entity.Lead, 0, len(cur))
		for _, l := range cur {
			if match(l) {
				removed++
				continue
			}
			next = append(next, l)
		}
		return next, nil
	})
	return removed, err
}

// ── Importación ───────────────────────────────────────────────────────────────

// AddBatch antepone los candidatos confirmados en el orden del archivo.
// createdAt = ahora + índice (ms) conserva su orden relativo.
func (b *Book) AddBatch(ctx context.Context, user entity.User, batch []importer.Candidate) ([]entity.Lead, error) {
	if err := requireAdmin(user); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return []entity.Lead{}, nil
	}
	base := b.now().UnixMilli()
	added := make([]entity.Lead, 0, len(batch))
	for i, c := range batch {
		added = append(added, entity.Lead{
			ID:                 b.newID(),
			Date:               c.Date,
			EmployeeName:       user.Name,
			EmployeeID:         user.ID,
			CustomerName:       c.CustomerName,
			MobileNumber:       c.MobileNumber,
			Group:              c.Group,
			Description:        c.Description,
			ProductDescription: c.ProductDescription,
			SKU:                c.SKU,
			SKUDescription:     c.SKUDescription,
			Status:             c.Status,
			Origin:             entity.OriginBulk,
			CreatedAt:          base + int64(i),
		})
	}
	err := b.mutate(ctx, "import", func(cur []entity.Lead) ([]entity.Lead, error) {
		next := make([]entity.Lead, 0, len(added)+len(cur))
		next = append(next, added...)
		return append(next, cur...), nil
	})
	if err != nil {
		return nil, err
	}
	b.metrics.Imported(len(added))
	return added, nil
}
