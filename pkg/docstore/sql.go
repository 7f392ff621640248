package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	doc_key TEXT NOT NULL,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (collection, doc_key)
)`
	selectCollectionQuery = `SELECT doc_key, payload FROM documents WHERE collection = ?`
	selectDocumentQuery   = `SELECT payload FROM documents WHERE collection = ? AND doc_key = ?`
	deleteCollectionQuery = `DELETE FROM documents WHERE collection = ?`
	deleteDocumentQuery   = `DELETE FROM documents WHERE collection = ? AND doc_key = ?`
	upsertDocumentQuery   = `INSERT INTO documents (collection, doc_key, payload, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (collection, doc_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
)

type documentRow struct {
	Key     string `db:"doc_key"`
	Payload string `db:"payload"`
}

// SQLStore persists each collection child (a record) as one JSON row in the
// documents table. Deeper paths are read-modify-written inside the same
// transaction as the rest of an update.
type SQLStore struct {
	db   *sqlx.DB
	opts options
	hub  *hub
	stop func()
	now  func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore wraps db. Queries are written with ? placeholders and rebound
// for the driver in use.
func NewSQLStore(db *sqlx.DB, opts ...Option) *SQLStore {
	s := &SQLStore{db: db, opts: buildOptions(opts), now: time.Now}
	s.hub = newHub(s.Get, s.opts.logger)
	s.stop = s.opts.notifier.Listen(s.hub.dispatch)
	return s
}

// Migrate creates the documents table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, path string) (Value, bool, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, false, err
	}
	if len(segments) == 0 {
		return nil, false, fmt.Errorf("%w: root cannot be read", ErrInvalidPath)
	}

	if len(segments) == 1 {
		var rows []documentRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(selectCollectionQuery), segments[0]); err != nil {
			return nil, false, fmt.Errorf("select collection %s: %w", segments[0], err)
		}
		if len(rows) == 0 {
			return nil, false, nil
		}
		out := make(map[string]interface{}, len(rows))
		for _, row := range rows {
			doc, err := decodePayload(row.Payload)
			if err != nil {
				return nil, false, fmt.Errorf("decode %s/%s: %w", segments[0], row.Key, err)
			}
			out[row.Key] = doc
		}
		return out, true, nil
	}

	doc, found, err := s.loadDocument(ctx, s.db, segments[0], segments[1])
	if err != nil || !found {
		return nil, false, err
	}
	value, ok := lookup(doc, segments[2:])
	return value, ok, nil
}

// Subscribe implements Store.
func (s *SQLStore) Subscribe(ctx context.Context, path string, fn Listener) (Unsubscribe, error) {
	return s.hub.add(ctx, path, fn)
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, path string, value interface{}) error {
	return s.apply(ctx, "set", map[string]interface{}{path: value})
}

// Push implements Store.
func (s *SQLStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := s.NewKey()
	if err := s.apply(ctx, "push", map[string]interface{}{Join(path, key): value}); err != nil {
		return "", err
	}
	return key, nil
}

// Update implements Store.
func (s *SQLStore) Update(ctx context.Context, updates map[string]interface{}) error {
	return s.apply(ctx, "update", updates)
}

// Remove implements Store.
func (s *SQLStore) Remove(ctx context.Context, path string) error {
	return s.apply(ctx, "remove", map[string]interface{}{path: nil})
}

// NewKey implements Store.
func (s *SQLStore) NewKey() string {
	return NewKey()
}

// Close detaches the store from its notifier. The database handle is owned
// by the caller.
func (s *SQLStore) Close() error {
	s.stop()
	return nil
}

func (s *SQLStore) apply(ctx context.Context, op string, updates map[string]interface{}) (err error) {
	start := time.Now()
	defer func() { s.opts.observe(op, time.Since(start), err) }()

	writes, err := planWrites(updates)
	if err != nil {
		return err
	}
	if len(writes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now().UTC()
	for _, w := range writes {
		if err = s.applyWrite(ctx, tx, w, now); err != nil {
			return fmt.Errorf("%s %s: %w", op, w.path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}

	if pubErr := s.opts.notifier.Publish(ctx, touchedCollections(writes)); pubErr != nil {
		s.opts.logger.Warn("change notification failed", zap.String("op", op), zap.Error(pubErr))
	}
	return nil
}

func (s *SQLStore) applyWrite(ctx context.Context, tx *sqlx.Tx, w write, now time.Time) error {
	collection := w.collection()

	switch len(w.segments) {
	case 1:
		if _, err := tx.ExecContext(ctx, tx.Rebind(deleteCollectionQuery), collection); err != nil {
			return err
		}
		if w.value == nil {
			return nil
		}
		children := w.value.(map[string]interface{})
		keys := make([]string, 0, len(children))
		for key := range children {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := s.upsert(ctx, tx, collection, key, children[key], now); err != nil {
				return err
			}
		}
		return nil
	case 2:
		if w.value == nil {
			_, err := tx.ExecContext(ctx, tx.Rebind(deleteDocumentQuery), collection, w.segments[1])
			return err
		}
		return s.upsert(ctx, tx, collection, w.segments[1], w.value, now)
	default:
		current, _, err := s.loadDocument(ctx, tx, collection, w.segments[1])
		if err != nil {
			return err
		}
		doc, ok := current.(map[string]interface{})
		if !ok {
			if w.value == nil {
				return nil
			}
			doc = make(map[string]interface{})
		}
		assign(doc, w.segments[2:], w.value)
		if len(doc) == 0 {
			_, err := tx.ExecContext(ctx, tx.Rebind(deleteDocumentQuery), collection, w.segments[1])
			return err
		}
		return s.upsert(ctx, tx, collection, w.segments[1], doc, now)
	}
}

func (s *SQLStore) upsert(ctx context.Context, tx *sqlx.Tx, collection, key string, value Value, now time.Time) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(upsertDocumentQuery), collection, key, string(payload), now)
	return err
}

func (s *SQLStore) loadDocument(ctx context.Context, q sqlx.QueryerContext, collection, key string) (Value, bool, error) {
	var payload string
	err := sqlx.GetContext(ctx, q, &payload, s.db.Rebind(selectDocumentQuery), collection, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s/%s: %w", collection, key, err)
	}
	doc, err := decodePayload(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return doc, true, nil
}

func decodePayload(payload string) (Value, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
