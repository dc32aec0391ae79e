package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

// RedisStore persists sessions as JSON values keyed by phone. Redis executes
// each SET/DEL as a single atomic command, so an upsert can never leave two
// rows for one phone.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	logger *logging.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore builds a store backed by the provided Redis client.
func NewRedisStore(client *redis.Client, logger *logging.Logger) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{
		redis:  client,
		tracer: otel.Tracer("zenvy.internal.session"),
		logger: logger,
	}
}

func sessionKey(phone string) string {
	return fmt.Sprintf("session:%s", phone)
}

// Get loads the session for the phone, returning nil when none exists.
func (s *RedisStore) Get(ctx context.Context, phone string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.get")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(phone)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode session: %w", err)
	}
	return &sess, nil
}

// Upsert overwrites the session row for its phone in a single SET.
func (s *RedisStore) Upsert(ctx context.Context, sess *Session) error {
	ctx, span := s.tracer.Start(ctx, "session.upsert")
	defer span.End()

	if sess.UpdatedAt == "" {
		sess.Touch(time.Now())
	}
	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.Phone), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist session: %w", err)
	}
	return nil
}

// Delete removes the session row; deleting an absent phone is a no-op.
func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(phone)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to delete session: %w", err)
	}
	return nil
}

// List scans all session keys. Rows that no longer decode are skipped and
// logged rather than failing the whole scan.
func (s *RedisStore) List(ctx context.Context) ([]*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.list")
	defer span.End()

	var out []*Session
	iter := s.redis.Scan(ctx, 0, sessionKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.redis.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			span.RecordError(err)
			return nil, fmt.Errorf("session: failed to load %s: %w", key, err)
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			s.logger.Warn("session: skipping undecodable row", "key", key, "error", err)
			continue
		}
		out = append(out, &sess)
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: scan failed: %w", err)
	}
	return out, nil
}
