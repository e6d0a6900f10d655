package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadAndGet(t *testing.T) {
	t.Run("Should persist the loaded record and serve values", func(t *testing.T) {
		// Arrange
		store := NewStore(nil)

		// Act
		record, err := store.Load(context.Background(), Options{"environment": "staging"})

		// Assert
		require.NoError(t, err)
		assert.Same(t, record, store.Record())

		env, err := store.Get("environment")
		require.NoError(t, err)
		assert.Equal(t, "staging", env)
	})

	t.Run("Should fail reads on an empty store", func(t *testing.T) {
		store := NewStore(nil)

		assert.Nil(t, store.Record())
		_, err := store.Get("environment")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("Should reject unknown option names on Get", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		_, err = store.Get("typo_option")
		assert.ErrorIs(t, err, ErrUnknownOption)
	})

	t.Run("Should leave the store untouched when loading fails", func(t *testing.T) {
		store := NewStore(nil)
		first, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		_, err = store.Load(context.Background(), Options{"sample_rate": 3.0})

		require.Error(t, err)
		assert.Same(t, first, store.Record())
	})
}

func TestStore_Put(t *testing.T) {
	t.Run("Should replace exactly one option", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), Options{"environment": "staging"})
		require.NoError(t, err)

		err = store.Put(context.Background(), "sample_rate", 0.5)

		require.NoError(t, err)
		rate, err := store.Get("sample_rate")
		require.NoError(t, err)
		assert.Equal(t, 0.5, rate)

		// Everything else survives unchanged.
		env, err := store.Get("environment")
		require.NoError(t, err)
		assert.Equal(t, "staging", env)
		assert.Equal(t, 0.5, store.Record().Config().SampleRate)
		assert.Equal(t, "staging", store.Record().Config().Environment)
	})

	t.Run("Should coerce string values like CLI overrides", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		require.NoError(t, store.Put(context.Background(), "max_breadcrumbs", "50"))

		value, err := store.Get("max_breadcrumbs")
		require.NoError(t, err)
		assert.Equal(t, 50, value)
	})

	t.Run("Should mark replaced options as overrides", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, store.Record().Source("sample_rate"))

		require.NoError(t, store.Put(context.Background(), "sample_rate", 0.5))

		assert.Equal(t, SourceOverride, store.Record().Source("sample_rate"))
	})

	t.Run("Should leave the store unchanged when the value is invalid", func(t *testing.T) {
		store := NewStore(nil)
		before, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		err = store.Put(context.Background(), "sample_rate", 3.0)

		require.Error(t, err)
		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Same(t, before, store.Record())
	})

	t.Run("Should reject unknown option names", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		err = store.Put(context.Background(), "typo_option", 1)

		assert.ErrorIs(t, err, ErrUnknownOption)
	})

	t.Run("Should fail on an empty store", func(t *testing.T) {
		store := NewStore(nil)

		err := store.Put(context.Background(), "sample_rate", 0.5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestStore_Restart(t *testing.T) {
	t.Run("Should discard overrides and re-read the environment", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), Options{"environment": "staging"})
		require.NoError(t, err)
		require.NoError(t, store.Put(context.Background(), "sample_rate", 0.5))

		t.Setenv("FAULTLINE_ENVIRONMENT", "canary")

		require.NoError(t, store.Restart(context.Background()))

		env, err := store.Get("environment")
		require.NoError(t, err)
		assert.Equal(t, "canary", env)
		assert.Equal(t, SourceEnv, store.Record().Source("environment"))

		rate, err := store.Get("sample_rate")
		require.NoError(t, err)
		assert.Equal(t, 1.0, rate)
		assert.Equal(t, SourceDefault, store.Record().Source("sample_rate"))
	})

	t.Run("Should keep the previous record when the environment is invalid", func(t *testing.T) {
		store := NewStore(nil)
		before, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		t.Setenv("FAULTLINE_DSN", "ftp://public@app.example.com/1")

		err = store.Restart(context.Background())

		require.Error(t, err)
		assert.Same(t, before, store.Record())
	})
}

func TestStore_OnChange(t *testing.T) {
	t.Run("Should notify callbacks on every snapshot replacement", func(t *testing.T) {
		store := NewStore(nil)
		var seen []*Record
		store.OnChange(func(record *Record) {
			seen = append(seen, record)
		})

		_, err := store.Load(context.Background(), nil)
		require.NoError(t, err)
		require.NoError(t, store.Put(context.Background(), "sample_rate", 0.5))
		require.NoError(t, store.Restart(context.Background()))

		require.Len(t, seen, 3)
		assert.Same(t, store.Record(), seen[2])
	})

	t.Run("Should not notify when a write fails", func(t *testing.T) {
		store := NewStore(nil)
		_, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		calls := 0
		store.OnChange(func(*Record) { calls++ })

		require.Error(t, store.Put(context.Background(), "sample_rate", 3.0))
		assert.Zero(t, calls)
	})
}

func TestStore_Context(t *testing.T) {
	t.Run("Should round-trip the store through the context", func(t *testing.T) {
		store := NewStore(nil)
		record, err := store.Load(context.Background(), nil)
		require.NoError(t, err)

		ctx := ContextWithStore(context.Background(), store)

		assert.Same(t, store, StoreFromContext(ctx))
		assert.Same(t, record, FromContext(ctx))
	})

	t.Run("Should return nil when no store is attached", func(t *testing.T) {
		assert.Nil(t, StoreFromContext(context.Background()))
		assert.Nil(t, FromContext(context.Background()))
		assert.Nil(t, StoreFromContext(nil)) //nolint:staticcheck
	})
}
