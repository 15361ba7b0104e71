// Package sqlitestore implementa repository.KVStore sobre un archivo SQLite
// compartido por varios procesos. Cada escritura deja una fila en kv_log con
// su writer; un watcher (fsnotify + sondeo de respaldo) lee las filas nuevas
// y notifica las que pertenecen a otros writers.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/conversion-pro/internal/domain/repository"
	"github.com/jhoicas/conversion-pro/internal/infrastructure/changefeed"
)

const (
	schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS kv_log (
	seq    INTEGER PRIMARY KEY AUTOINCREMENT,
	key    TEXT NOT NULL,
	writer TEXT NOT NULL
);`

	// logRetention filas de kv_log que se conservan tras cada escritura.
	logRetention = 1000
)

// Options ajustes del almacén.
type Options struct {
	// PollInterval sondeo de respaldo cuando fsnotify no entrega eventos
	// (volúmenes de red, algunos contenedores). Por defecto 2s.
	PollInterval time.Duration
}

var _ repository.KVStore = (*Store)(nil)

// Store almacén SQLite.
type Store struct {
	db     *sql.DB
	path   string
	writer string
	feed   *changefeed.Feed
	log    zerolog.Logger
	opts   Options

	mu        sync.Mutex
	lastSeq   int64
	watching  bool
	stopWatch chan struct{}
	wg        sync.WaitGroup
}

// Open abre (o crea) la base en path y aplica el esquema.
func Open(ctx context.Context, path string, log zerolog.Logger, opts Options) (*Store, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: ruta %q: %w", path, err)
	}
	dsn := "file:" + abs + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: esquema: %w", err)
	}

	s := &Store{
		db:     db,
		path:   abs,
		writer: uuid.NewString(),
		feed:   changefeed.New(),
		log:    log,
		opts:   opts,
	}
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM kv_log`).Scan(&s.lastSeq); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: leer kv_log: %w", err)
	}
	return s, nil
}

// WriterID identificador de este proceso/instancia.
func (s *Store) WriterID() string { return s.writer }

// Get devuelve el valor de key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set guarda value y registra el cambio.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.write(ctx, key, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
		return err
	})
}

// Remove borra key y registra el cambio.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.write(ctx, key, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
		return err
	})
}

func (s *Store) write(ctx context.Context, key string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("sqlite: write %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO kv_log (key, writer) VALUES (?, ?)`, key, s.writer); err != nil {
		return fmt.Errorf("sqlite: log %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM kv_log WHERE seq <= (SELECT MAX(seq) FROM kv_log) - ?`, logRetention); err != nil {
		return fmt.Errorf("sqlite: podar kv_log: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Subscribe recibe las escrituras de otros writers. El watcher arranca con
// la primera suscripción.
func (s *Store) Subscribe(ctx context.Context, fn repository.ChangeFunc) (func(), error) {
	if err := s.startWatch(); err != nil {
		return nil, err
	}
	return s.feed.Subscribe(ctx, fn), nil
}

func (s *Store) startWatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watching {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("sqlite: fsnotify: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("sqlite: vigilar %s: %w", filepath.Dir(s.path), err)
	}
	s.watching = true
	s.stopWatch = make(chan struct{})
	s.wg.Add(1)
	go s.watch(w, s.stopWatch)
	return nil
}

func (s *Store) watch(w *fsnotify.Watcher, stop <-chan struct{}) {
	defer s.wg.Done()
	defer w.Close()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	base := filepath.Base(s.path)

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			// kv.db, kv.db-wal, kv.db-shm
			if strings.HasPrefix(filepath.Base(ev.Name), base) && ev.Has(fsnotify.Write|fsnotify.Create) {
				s.poll()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Str("path", s.path).Msg("watcher sqlite")
		case <-ticker.C:
			s.poll()
		}
	}
}

// poll lee kv_log desde el último seq visto y publica los cambios ajenos.
func (s *Store) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	from := s.lastSeq
	s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT seq, key, writer FROM kv_log WHERE seq > ? ORDER BY seq`, from)
	if err != nil {
		s.log.Warn().Err(err).Msg("leer kv_log")
		return
	}
	defer rows.Close()

	last := from
	var keys []string
	for rows.Next() {
		var ev changefeed.Event
		var seq int64
		if err := rows.Scan(&seq, &ev.Key, &ev.Writer); err != nil {
			s.log.Warn().Err(err).Msg("escanear kv_log")
			return
		}
		last = seq
		if ev.Writer != s.writer {
			keys = append(keys, ev.Key)
		}
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("iterar kv_log")
		return
	}

	s.mu.Lock()
	if last > s.lastSeq {
		s.lastSeq = last
	}
	s.mu.Unlock()

	for _, k := range keys {
		s.feed.Publish(k)
	}
}

// Close detiene el watcher, los suscriptores y cierra la base.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.watching {
		close(s.stopWatch)
		s.watching = false
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.feed.Close()
	return s.db.Close()
}
