package redis

import (
	"context"
	"errors"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/scope"
)

// AttributeStore is a scope.Store kept in one Redis hash, so the
// application tier can be shared by several instances. Redis failures are
// logged; reads then report the attribute as absent.
type AttributeStore struct {
	client Client
	key    string
	opts   storeOptions
}

var _ scope.Store = (*AttributeStore)(nil)

// NewAttributeStore creates an AttributeStore in the hash named name.
func NewAttributeStore(client Client, name string, opts ...StoreOption) *AttributeStore {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &AttributeStore{client: client, key: o.prefix + "attributes:" + name, opts: o}
}

// Key returns the hash key holding the attributes.
func (s *AttributeStore) Key() string {
	return s.key
}

func (s *AttributeStore) Attribute(name string) (any, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
	defer cancel()

	data, err := s.client.HGet(ctx, s.key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logFailure(ctx, "get", name, err)
		return nil, false
	}

	var v any
	if err := decode(data, &v); err != nil {
		s.logFailure(ctx, "get", name, err)
		return nil, false
	}
	return v, true
}

// SetAttribute stores value under name. A nil value removes the attribute.
func (s *AttributeStore) SetAttribute(name string, value any) {
	if value == nil {
		s.RemoveAttribute(name)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
	defer cancel()

	data, err := encode(value)
	if err != nil {
		s.logFailure(ctx, "set", name, err)
		return
	}
	if err := s.client.HSet(ctx, s.key, name, data).Err(); err != nil {
		s.logFailure(ctx, "set", name, err)
	}
}

func (s *AttributeStore) RemoveAttribute(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
	defer cancel()

	if err := s.client.HDel(ctx, s.key, name).Err(); err != nil {
		s.logFailure(ctx, "remove", name, err)
	}
}

// AttributeNames returns the attribute names in sorted order.
func (s *AttributeStore) AttributeNames() []string {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
	defer cancel()

	names, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		s.logFailure(ctx, "names", "", err)
		return nil
	}
	slices.Sort(names)
	return names
}

func (s *AttributeStore) logFailure(ctx context.Context, op, name string, err error) {
	s.opts.logger.ErrorContext(ctx, "attribute store failure",
		logger.Component("redis"),
		logger.Action(op),
		logger.Key("attribute", name),
		logger.Error(err),
	)
}
