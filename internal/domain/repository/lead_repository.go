package repository

import (
	"context"

	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// LeadRepository colección completa de leads. No hay escrituras parciales:
// cada mutación reemplaza la colección entera.
type LeadRepository interface {
	Load(ctx context.Context) ([]entity.Lead, error)
	ReplaceAll(ctx context.Context, leads []entity.Lead) error
	// OnChange invoca fn cuando otro contexto reemplaza la colección.
	OnChange(ctx context.Context, fn func()) (cancel func(), err error)
}

// SessionRepository usuario de la sesión actual. Load devuelve nil si no hay sesión.
type SessionRepository interface {
	Load(ctx context.Context) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	Clear(ctx context.Context) error
}
