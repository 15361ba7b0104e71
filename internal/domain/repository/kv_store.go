package repository

import "context"

// Claves lógicas del almacén persistido.
const (
	KeySession = "cp_session"
	KeyEntries = "cp_entries"
)

// ChangeFunc recibe la clave modificada por otro contexto de ejecución.
type ChangeFunc func(key string)

// KVStore almacén clave-valor compartido entre contextos de ejecución.
// Cada instancia tiene un writer id propio; Subscribe sólo notifica las
// escrituras hechas por otros writers.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Subscribe(ctx context.Context, fn ChangeFunc) (cancel func(), err error)
	WriterID() string
	Close() error
}
