// Package memstore implementa repository.KVStore en memoria. Un Backend se
// comparte entre varias vistas (Open); cada vista es un contexto de
// ejecución con su propio writer id y sólo recibe cambios de las demás.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/changefeed"
)

// Backend datos compartidos.
type Backend struct {
	mu    sync.RWMutex
	data  map[string]string
	views map[string]*Store
}

// NewBackend crea un backend vacío.
func NewBackend() *Backend {
	return &Backend{data: map[string]string{}, views: map[string]*Store{}}
}

// Open abre una vista nueva sobre el backend.
func (b *Backend) Open() *Store {
	s := &Store{b: b, writer: uuid.NewString(), feed: changefeed.New()}
	b.mu.Lock()
	b.views[s.writer] = s
	b.mu.Unlock()
	return s
}

// New atajo: backend propio con una única vista.
func New() *Store { return NewBackend().Open() }

var _ repository.KVStore = (*Store)(nil)

// Store vista sobre un Backend.
type Store struct {
	b      *Backend
	writer string
	feed   *changefeed.Feed
}

// WriterID identificador de esta vista.
func (s *Store) WriterID() string { return s.writer }

// Get devuelve el valor de key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	v, ok := s.b.data[key]
	return v, ok, nil
}

// Set guarda value y notifica a las otras vistas.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.b.mu.Lock()
	s.b.data[key] = value
	s.b.mu.Unlock()
	s.notifyOthers(key)
	return nil
}

// Remove borra key y notifica a las otras vistas.
func (s *Store) Remove(_ context.Context, key string) error {
	s.b.mu.Lock()
	delete(s.b.data, key)
	s.b.mu.Unlock()
	s.notifyOthers(key)
	return nil
}

func (s *Store) notifyOthers(key string) {
	s.b.mu.RLock()
	others := make([]*Store, 0, len(s.b.views))
	for id, v := range s.b.views {
		if id != s.writer {
			others = append(others, v)
		}
	}
	s.b.mu.RUnlock()
	for _, v := range others {
		v.feed.Publish(key)
	}
}

// Subscribe recibe las escrituras de otras vistas.
func (s *Store) Subscribe(ctx context.Context, fn repository.ChangeFunc) (func(), error) {
	return s.feed.Subscribe(ctx, fn), nil
}

// Close desregistra la vista y detiene sus suscriptores.
func (s *Store) Close() error {
	s.b.mu.Lock()
	delete(s.b.views, s.writer)
	s.b.mu.Unlock()
	s.feed.Close()
	return nil
}
