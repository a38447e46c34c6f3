package redis_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/webbridge/core/scope"
	"github.com/dmitrymomot/webbridge/integration/database/redis"
)

func TestAttributeStore(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	store := redis.NewAttributeStore(client, "app", redis.WithKeyPrefix("t:"))
	assert.Equal(t, "t:attributes:app", store.Key())

	store.SetAttribute("title", "Site")
	store.SetAttribute("limits", map[string]any{"uploads": 5})

	v, ok := store.Attribute("title")
	assert.True(t, ok)
	assert.Equal(t, "Site", v)

	v, ok = store.Attribute("limits")
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"uploads": int64(5)}, v)

	assert.Equal(t, []string{"limits", "title"}, store.AttributeNames())

	store.SetAttribute("title", nil)
	_, ok = store.Attribute("title")
	assert.False(t, ok)

	store.RemoveAttribute("limits")
	assert.Empty(t, store.AttributeNames())
}

func TestAttributeStore_Failures(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.failErr = errors.New("connection reset")
	store := redis.NewAttributeStore(client, "app")

	_, ok := store.Attribute("title")
	assert.False(t, ok)
	assert.Nil(t, store.AttributeNames())
}

func TestAttributeStore_ApplicationTier(t *testing.T) {
	t.Parallel()

	shared := newFakeClient()
	first := redis.NewAttributeStore(shared, "app")
	second := redis.NewAttributeStore(shared, "app")

	pc := scope.New()
	assert.NoError(t, pc.Initialize(scope.NewMapStore(), nil, first))

	assert.NoError(t, pc.SetAttributeIn("motd", "hello", scope.Application))

	v, ok := second.Attribute("motd")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.Equal(t, "hello", pc.Find("motd"))
	assert.Equal(t, scope.Application, pc.AttributesScope("motd"))
}
