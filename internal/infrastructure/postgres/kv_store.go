package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/changefeed"
)

// NotifyChannel canal de LISTEN/NOTIFY para cambios de clave.
const NotifyChannel = "kv_changes"

const migration = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	writer     TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var _ repository.KVStore = (*KVStore)(nil)

// KVStore almacén clave-valor en PostgreSQL. Cada escritura emite
// pg_notify en la misma transacción; un listener dedicado reparte los
// cambios de otros writers.
type KVStore struct {
	pool   *pgxpool.Pool
	writer string
	feed   *changefeed.Feed
	log    zerolog.Logger

	mu     sync.Mutex
	listen context.CancelFunc
	wg     sync.WaitGroup
}

// NewKVStore construye el almacén sobre el pool.
func NewKVStore(pool *pgxpool.Pool, log zerolog.Logger) *KVStore {
	return &KVStore{pool: pool, writer: uuid.NewString(), feed: changefeed.New(), log: log}
}

// Migrate crea la tabla si no existe.
func (s *KVStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, migration); err != nil {
		return fmt.Errorf("migrate kv_store: %w", err)
	}
	return nil
}

// WriterID identificador de esta instancia.
func (s *KVStore) WriterID() string { return s.writer }

// Get devuelve el valor de key.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// Set guarda value y notifica.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.write(ctx, key, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO kv_store (key, value, writer, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, writer = EXCLUDED.writer, updated_at = now()`,
			key, value, s.writer)
		return err
	})
}

// Remove borra key y notifica.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	return s.write(ctx, key, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
		return err
	})
}

func (s *KVStore) write(ctx context.Context, key string, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	ev := changefeed.Event{Key: key, Writer: s.writer}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, ev.Encode()); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Subscribe recibe las escrituras de otras instancias. El listener arranca
// con la primera suscripción.
func (s *KVStore) Subscribe(ctx context.Context, fn repository.ChangeFunc) (func(), error) {
	s.mu.Lock()
	if s.listen == nil {
		lctx, cancel := context.WithCancel(context.Background())
		s.listen = cancel
		s.wg.Add(1)
		go s.listenLoop(lctx)
	}
	s.mu.Unlock()
	return s.feed.Subscribe(ctx, fn), nil
}

// listenLoop mantiene LISTEN con reconexión.
func (s *KVStore) listenLoop(ctx context.Context) {
	defer s.wg.Done()
	wait := 500 * time.Millisecond
	for {
		err := s.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if isConnClosed(ctx, err) {
			s.log.Warn().Err(err).Dur("retry_in", wait).Msg("listener postgres caído, reintentando")
		}
		if !backoff(ctx, wait) {
			return
		}
		if wait < 30*time.Second {
			wait *= 2
		}
	}
}

func (s *KVStore) listenOnce(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		ev, err := changefeed.Decode(n.Payload)
		if err != nil {
			s.log.Warn().Err(err).Str("payload", n.Payload).Msg("notificación inválida")
			continue
		}
		if ev.Writer == s.writer {
			continue
		}
		s.feed.Publish(ev.Key)
	}
}

// Close detiene el listener y los suscriptores. El pool lo cierra quien lo creó.
func (s *KVStore) Close() error {
	s.mu.Lock()
	if s.listen != nil {
		s.listen()
		s.listen = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.feed.Close()
	return nil
}
