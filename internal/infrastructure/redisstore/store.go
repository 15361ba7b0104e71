// Package redisstore implementa repository.KVStore sobre Redis: SET/DEL en
// una transacción con PUBLISH del cambio, y una suscripción al canal que
// reparte los cambios de otros writers.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/changefeed"
)

// Channel canal de notificación de cambios.
const Channel = "kv:changes"

const keyPrefix = "cp:"

var _ repository.KVStore = (*Store)(nil)

// Store almacén Redis.
type Store struct {
	client *redis.Client
	writer string
	feed   *changefeed.Feed
	log    zerolog.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	wg     sync.WaitGroup
}

// New usa un cliente ya construido.
func New(client *redis.Client, log zerolog.Logger) *Store {
	return &Store{client: client, writer: uuid.NewString(), feed: changefeed.New(), log: log}
}

// Dial parsea la URL (redis://host:port/db), conecta y verifica con PING.
func Dial(ctx context.Context, url string, log zerolog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return New(client, log), nil
}

// WriterID identificador de esta instancia.
func (s *Store) WriterID() string { return s.writer }

// Get devuelve el valor de key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set guarda value y publica el cambio.
func (s *Store) Set(ctx context.Context, key, value string) error {
	ev := changefeed.Event{Key: key, Writer: s.writer}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+key, value, 0)
		pipe.Publish(ctx, Channel, ev.Encode())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Remove borra key y publica el cambio.
func (s *Store) Remove(ctx context.Context, key string) error {
	ev := changefeed.Event{Key: key, Writer: s.writer}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyPrefix+key)
		pipe.Publish(ctx, Channel, ev.Encode())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: remove %s: %w", key, err)
	}
	return nil
}

// Subscribe recibe las escrituras de otras instancias. La suscripción al
// canal se abre con el primer suscriptor.
func (s *Store) Subscribe(ctx context.Context, fn repository.ChangeFunc) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pubsub == nil {
		ps := s.client.Subscribe(ctx, Channel)
		if _, err := ps.Receive(ctx); err != nil {
			_ = ps.Close()
			return nil, fmt.Errorf("redis: subscribe: %w", err)
		}
		s.pubsub = ps
		s.wg.Add(1)
		go s.dispatch(ps.Channel())
	}
	return s.feed.Subscribe(ctx, fn), nil
}

func (s *Store) dispatch(ch <-chan *redis.Message) {
	defer s.wg.Done()
	for msg := range ch {
		ev, err := changefeed.Decode(msg.Payload)
		if err != nil {
			s.log.Warn().Err(err).Str("payload", msg.Payload).Msg("mensaje de cambio inválido")
			continue
		}
		if ev.Writer == s.writer {
			continue
		}
		s.feed.Publish(ev.Key)
	}
}

// Close cierra la suscripción, los suscriptores y el cliente.
func (s *Store) Close() error {
	s.mu.Lock()
	ps := s.pubsub
	s.pubsub = nil
	s.mu.Unlock()
	if ps != nil {
		_ = ps.Close()
	}
	s.wg.Wait()
	s.feed.Close()
	return s.client.Close()
}
