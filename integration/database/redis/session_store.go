package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/session"
)

const (
	sessionDataSegment  = "session:data:"
	sessionTokenSegment = "session:token:"
)

// StoreOption configures the Redis-backed stores.
type StoreOption func(*storeOptions)

type storeOptions struct {
	prefix    string
	scanBatch int64
	timeout   time.Duration
	logger    *slog.Logger
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		prefix:    "webbridge:",
		scanBatch: 1000,
		timeout:   2 * time.Second,
		logger:    slog.Default(),
	}
}

// WithKeyPrefix sets the prefix of every key the store writes.
func WithKeyPrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		o.prefix = prefix
	}
}

// WithScanBatchSize sets the COUNT hint used while scanning keys.
func WithScanBatchSize(n int) StoreOption {
	return func(o *storeOptions) {
		if n > 0 {
			o.scanBatch = int64(n)
		}
	}
}

// WithOpTimeout bounds each Redis call made by AttributeStore, whose
// methods carry no context.
func WithOpTimeout(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// FromConfig returns the store options described by cfg.
func FromConfig(cfg Config) []StoreOption {
	return []StoreOption{
		WithKeyPrefix(cfg.KeyPrefix),
		WithScanBatchSize(cfg.ScanBatchSize),
		WithOpTimeout(cfg.OpTimeout),
	}
}

type sessionRecord struct {
	ID         string         `cbor:"id"`
	Token      string         `cbor:"token"`
	Attributes map[string]any `cbor:"attrs,omitempty"`
	ExpiresAt  time.Time      `cbor:"expires_at"`
	CreatedAt  time.Time      `cbor:"created_at"`
	UpdatedAt  time.Time      `cbor:"updated_at"`
	DeletedAt  time.Time      `cbor:"deleted_at"`
}

// SessionStore implements session.Store on Redis. Each session is a CBOR
// record keyed by ID plus a token index key; both expire with the session.
type SessionStore struct {
	client Client
	opts   storeOptions
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore using client.
func NewSessionStore(client Client, opts ...StoreOption) *SessionStore {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SessionStore{client: client, opts: o}
}

func (s *SessionStore) dataKey(id string) string {
	return s.opts.prefix + sessionDataSegment + id
}

func (s *SessionStore) tokenKey(token string) string {
	return s.opts.prefix + sessionTokenSegment + token
}

func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	rec, err := s.load(ctx, s.dataKey(id.String()))
	if err != nil {
		return nil, err
	}
	return rec.session()
}

func (s *SessionStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	id, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, s.dataKey(id))
	if err != nil {
		return nil, err
	}
	if rec.Token != token {
		return nil, session.ErrNotFound
	}
	return rec.session()
}

// Save writes the session. A rotated token replaces the previous index key.
// A session that is already expired is removed instead.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	c := sess.Clone()
	id := c.ID.String()

	prev, err := s.load(ctx, s.dataKey(id))
	switch {
	case err == nil && prev.Token != c.Token:
		if err := s.client.Del(ctx, s.tokenKey(prev.Token)).Err(); err != nil {
			return err
		}
	case err != nil && !errors.Is(err, session.ErrNotFound):
		return err
	}

	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		return s.client.Del(ctx, s.dataKey(id), s.tokenKey(c.Token)).Err()
	}

	data, err := encode(sessionRecord{
		ID:         id,
		Token:      c.Token,
		Attributes: c.Attributes,
		ExpiresAt:  c.ExpiresAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		DeletedAt:  c.DeletedAt,
	})
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.dataKey(id), data, ttl).Err(); err != nil {
		return err
	}
	return s.client.Set(ctx, s.tokenKey(c.Token), id, ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	key := s.dataKey(id.String())
	rec, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key, s.tokenKey(rec.Token)).Err()
}

// DeleteExpired removes records whose expiry has passed but whose keys are
// still present. Redis key expiry normally handles this already.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	match := s.opts.prefix + sessionDataSegment + "*"
	now := time.Now()

	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, s.opts.scanBatch).Result()
		if err != nil {
			return deleted, err
		}

		for _, key := range keys {
			rec, err := s.load(ctx, key)
			if errors.Is(err, session.ErrNotFound) {
				continue
			}
			if err != nil {
				s.opts.logger.WarnContext(ctx, "skipping unreadable session record",
					logger.Component("redis"),
					logger.Key("key", key),
					logger.Error(err),
				)
				continue
			}
			if !now.After(rec.ExpiresAt) {
				continue
			}
			n, err := s.client.Del(ctx, key, s.tokenKey(rec.Token)).Result()
			if err != nil {
				return deleted, err
			}
			if n > 0 {
				deleted++
			}
		}

		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

func (s *SessionStore) load(ctx context.Context, key string) (*sessionRecord, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := decode(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sessionRecord) session() (*session.Session, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	attrs := r.Attributes
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &session.Session{
		ID:         id,
		Token:      r.Token,
		Attributes: attrs,
		ExpiresAt:  r.ExpiresAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		DeletedAt:  r.DeletedAt,
	}, nil
}
