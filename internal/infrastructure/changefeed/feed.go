// Package changefeed reparte notificaciones de cambio de clave entre
// suscriptores. Cada suscriptor tiene su propia goroutine; las claves
// pendientes se agrupan, por lo que un suscriptor lento recibe una sola
// notificación por clave aunque haya habido varias escrituras.
package changefeed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
)

// Event mensaje que viaja por el canal de notificación de los almacenes
// compartidos (Postgres NOTIFY, Redis PUBLISH, registro de SQLite).
type Event struct {
	Key    string `json:"key"`
	Writer string `json:"writer"`
}

// Encode serializa el evento.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Decode interpreta un payload recibido.
func Decode(payload string) (Event, error) {
	var e Event
	err := json.Unmarshal([]byte(payload), &e)
	return e, err
}

type subscriber struct {
	fn      repository.ChangeFunc
	mu      sync.Mutex
	pending []string
	signal  chan struct{}
	done    chan struct{}
	once    sync.Once
}

func (s *subscriber) push(key string) {
	s.mu.Lock()
	dup := false
	for _, k := range s.pending {
		if k == key {
			dup = true
			break
		}
	}
	if !dup {
		s.pending = append(s.pending, key)
	}
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.pending
	s.pending = nil
	return keys
}

func (s *subscriber) stop() { s.once.Do(func() { close(s.done) }) }

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
			for _, k := range s.drain() {
				select {
				case <-s.done:
					return
				default:
				}
				s.fn(k)
			}
		}
	}
}

// Feed conjunto de suscriptores.
type Feed struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	next   uint64
	closed bool
	wg     sync.WaitGroup
}

// New crea un feed vacío.
func New() *Feed {
	return &Feed{subs: map[uint64]*subscriber{}}
}

// Subscribe registra fn. El suscriptor se cancela con la función devuelta o
// cuando ctx termina.
func (f *Feed) Subscribe(ctx context.Context, fn repository.ChangeFunc) func() {
	s := &subscriber{fn: fn, signal: make(chan struct{}, 1), done: make(chan struct{})}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return func() {}
	}
	id := f.next
	f.next++
	f.subs[id] = s
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		s.run()
	}()

	cancel := func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
		s.stop()
	}
	stop := context.AfterFunc(ctx, cancel)
	return func() {
		stop()
		cancel()
	}
}

// Publish notifica key a todos los suscriptores.
func (f *Feed) Publish(key string) {
	f.mu.Lock()
	subs := make([]*subscriber, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()
	for _, s := range subs {
		s.push(key)
	}
}

// Len número de suscriptores activos.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close cancela todos los suscriptores y espera a sus goroutines.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	subs := f.subs
	f.subs = map[uint64]*subscriber{}
	f.mu.Unlock()
	for _, s := range subs {
		s.stop()
	}
	f.wg.Wait()
}
