package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"pgm_storefront/internal/storage"
)

const (
	// tables
	stateTable = "client_state"

	notifyChannel = "client_state_changes"
)

type changeMessage struct {
	Origin  string           `json:"origin"`
	Changes []storage.Change `json:"changes"`
}

// Storage keeps client state in one Postgres table. Change notifications
// travel over LISTEN/NOTIFY and are delivered on commit only.
type Storage struct {
	db     *pgxpool.Pool
	origin string
}

func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db:     db,
		origin: uuid.NewString(),
	}, nil
}

func (s *Storage) Stop() {
	s.db.Close()
}

// Migrate creates the state table when it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgresql.Migrate"

	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS client_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.postgresql.Get"

	query, args, err := sq.Select("value").
		From(stateTable).
		Where(sq.Eq{"key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var value string
	err = s.db.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", storage.ErrorNoSuchKey
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (s *Storage) Set(ctx context.Context, values map[string]string) error {
	const op = "storage.postgresql.Set"

	if len(values) == 0 {
		return nil
	}

	changes := make([]storage.Change, 0, len(values))
	for k, v := range values {
		if k == "" {
			return fmt.Errorf("%s: %w", op, storage.ErrEmptyKey)
		}
		changes = append(changes, storage.Change{Key: k, Value: v})
	}
	sortChanges(changes)

	now := time.Now().UTC()
	builder := sq.Insert(stateTable).Columns("key", "value", "updated_at")
	for _, c := range changes {
		builder = builder.Values(c.Key, c.Value, now)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if err := s.inTx(ctx, query, args, changes); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	const op = "storage.postgresql.Delete"

	if len(keys) == 0 {
		return nil
	}

	changes := make([]storage.Change, 0, len(keys))
	for _, k := range keys {
		changes = append(changes, storage.Change{Key: k, Deleted: true})
	}
	sortChanges(changes)

	query, args, err := sq.Delete(stateTable).
		Where(sq.Eq{"key": keys}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if err := s.inTx(ctx, query, args, changes); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) inTx(ctx context.Context, query string, args []interface{}, changes []storage.Change) error {
	payload, err := json.Marshal(changeMessage{Origin: s.origin, Changes: changes})
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, string(payload)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Watch holds one pooled connection in LISTEN mode until ctx is done.
func (s *Storage) Watch(ctx context.Context) (<-chan storage.Change, error) {
	const op = "storage.postgresql.Watch"

	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan storage.Change, 64)

	go func() {
		defer close(out)
		defer func() {
			// the connection is still subscribed, it must not return to the pool
			_ = conn.Conn().Close(context.Background())
			conn.Release()
		}()

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				return
			}

			var msg changeMessage
			if err := json.Unmarshal([]byte(n.Payload), &msg); err != nil || msg.Origin == s.origin {
				continue
			}

			for _, c := range msg.Changes {
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func sortChanges(changes []storage.Change) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
}
