package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pgm_storefront/internal/storage"
)

const (
	DefaultPrefix = "pgm:state:"
	changesSuffix = "changes"
)

// changeMessage is published on the changes channel after every write.
type changeMessage struct {
	Origin  string           `json:"origin"`
	Changes []storage.Change `json:"changes"`
}

// StateStore keeps client state in Redis strings. Writes are applied in a
// MULTI/EXEC block together with a PUBLISH so watchers on other hosts see
// every committed change exactly once.
type StateStore struct {
	client *Client
	prefix string
	origin string
}

func NewStateStore(client *Client, prefix string) *StateStore {
	return NewStateStoreWithOrigin(client, prefix, uuid.NewString())
}

func NewStateStoreWithOrigin(client *Client, prefix, origin string) *StateStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &StateStore{client: client, prefix: prefix, origin: origin}
}

// Origin identifies this handle in published change messages.
func (s *StateStore) Origin() string {
	return s.origin
}

func (s *StateStore) channel() string {
	return s.prefix + changesSuffix
}

func (s *StateStore) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.redis.Get"

	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrorNoSuchKey
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *StateStore) Set(ctx context.Context, values map[string]string) error {
	const op = "storage.redis.Set"

	changes := make([]storage.Change, 0, len(values))
	for k, v := range values {
		if k == "" {
			return fmt.Errorf("%s: %w", op, storage.ErrEmptyKey)
		}
		changes = append(changes, storage.Change{Key: k, Value: v})
	}

	if err := s.apply(ctx, changes); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *StateStore) Delete(ctx context.Context, keys ...string) error {
	const op = "storage.redis.Delete"

	if len(keys) == 0 {
		return nil
	}

	changes := make([]storage.Change, 0, len(keys))
	for _, k := range keys {
		changes = append(changes, storage.Change{Key: k, Deleted: true})
	}

	if err := s.apply(ctx, changes); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *StateStore) apply(ctx context.Context, changes []storage.Change) error {
	if len(changes) == 0 {
		return nil
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })

	payload, err := json.Marshal(changeMessage{Origin: s.origin, Changes: changes})
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, c := range changes {
			if c.Deleted {
				pipe.Del(ctx, s.prefix+c.Key)
				continue
			}
			pipe.Set(ctx, s.prefix+c.Key, c.Value, 0)
		}
		pipe.Publish(ctx, s.channel(), string(payload))
		return nil
	})

	return err
}

// Watch subscribes to the changes channel and forwards changes published by
// other handles.
func (s *StateStore) Watch(ctx context.Context) (<-chan storage.Change, error) {
	const op = "storage.redis.Watch"

	sub := s.client.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan storage.Change, 64)

	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				for _, c := range s.foreignChanges(msg.Payload) {
					select {
					case out <- c:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// foreignChanges decodes a change message, dropping malformed payloads and
// this handle's own writes.
func (s *StateStore) foreignChanges(payload string) []storage.Change {
	var msg changeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil
	}
	if msg.Origin == s.origin {
		return nil
	}
	return msg.Changes
}
