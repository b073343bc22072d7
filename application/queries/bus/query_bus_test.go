package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testQuery struct {
	ID      string
	invalid bool
}

func (q testQuery) Validate() error {
	if q.invalid {
		return errors.New("bad query")
	}
	return nil
}

type mapCache struct {
	entries map[string]interface{}
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]interface{})}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.entries[key] = value
	c.sets++
	return nil
}

func TestQueryBus_Ask_ReturnsHandlerResult(t *testing.T) {
	// Arrange
	queryBus := NewQueryBus()
	require.NoError(t, queryBus.Register(testQuery{}, QueryHandlerFunc(
		func(ctx context.Context, query Query) (interface{}, error) {
			return "answer", nil
		})))

	// Act
	result, err := queryBus.Ask(context.Background(), testQuery{ID: "q1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "answer", result)
}

func TestQueryBus_Ask_ValidationFailureSkipsHandler(t *testing.T) {
	// Arrange
	queryBus := NewQueryBus()
	handled := false
	require.NoError(t, queryBus.Register(testQuery{}, QueryHandlerFunc(
		func(ctx context.Context, query Query) (interface{}, error) {
			handled = true
			return nil, nil
		})))

	// Act
	_, err := queryBus.Ask(context.Background(), testQuery{invalid: true})

	// Assert
	assert.Error(t, err)
	assert.False(t, handled)
}

func TestQueryBus_Ask_UnregisteredQuery(t *testing.T) {
	queryBus := NewQueryBus()

	_, err := queryBus.Ask(context.Background(), testQuery{})

	assert.Error(t, err)
}

func TestCachingMiddleware_Wrap_ServesSecondCallFromCache(t *testing.T) {
	// Arrange
	cache := newMapCache()
	calls := 0
	handler := NewCachingMiddleware(cache, 30).Wrap(QueryHandlerFunc(
		func(ctx context.Context, query Query) (interface{}, error) {
			calls++
			return "answer", nil
		}))

	// Act
	first, err := handler.Handle(context.Background(), testQuery{ID: "q1"})
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), testQuery{ID: "q1"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "answer", first)
	assert.Equal(t, "answer", second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.sets)
}

func TestCachingMiddleware_Wrap_DistinctQueriesCachedSeparately(t *testing.T) {
	// Arrange
	cache := newMapCache()
	calls := 0
	handler := NewCachingMiddleware(cache, 30).Wrap(QueryHandlerFunc(
		func(ctx context.Context, query Query) (interface{}, error) {
			calls++
			return query.(testQuery).ID, nil
		}))

	// Act
	_, err := handler.Handle(context.Background(), testQuery{ID: "q1"})
	require.NoError(t, err)
	_, err = handler.Handle(context.Background(), testQuery{ID: "q2"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, calls)
}

func TestCachingMiddleware_Wrap_ErrorsNotCached(t *testing.T) {
	// Arrange
	cache := newMapCache()
	handler := NewCachingMiddleware(cache, 30).Wrap(QueryHandlerFunc(
		func(ctx context.Context, query Query) (interface{}, error) {
			return nil, errors.New("boom")
		}))

	// Act
	_, err := handler.Handle(context.Background(), testQuery{ID: "q1"})

	// Assert
	assert.Error(t, err)
	assert.Equal(t, 0, cache.sets)
}
