package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSnapshotStoreCompliance runs the shared SnapshotStore contract against
// a fresh store returned by setup for each subtest.
func runSnapshotStoreCompliance(t *testing.T, setup func(t *testing.T) SnapshotStore) {
	t.Run("EmptyStoreIsAbsent", func(t *testing.T) {
		store := setup(t)
		_, ok, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		done := time.Date(2026, 2, 9, 12, 30, 15, 250_000_000, time.UTC)
		in := Snapshot{
			Todos: []string{"b", "b", "c"},
			FutureTodos: []FutureTodo{
				{Todo: "a", DoneDate: done, ReturnInDays: 1},
				{Todo: "d", DoneDate: done.Add(time.Hour), ReturnInDays: 7},
			},
		}
		require.NoError(t, store.Save(ctx, in))

		got, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, in.Todos, got.Todos)
		require.Len(t, got.FutureTodos, 2)
		for i := range in.FutureTodos {
			assert.Equal(t, in.FutureTodos[i].Todo, got.FutureTodos[i].Todo)
			assert.True(t, in.FutureTodos[i].DoneDate.Equal(got.FutureTodos[i].DoneDate), "doneDate %d", i)
			assert.Equal(t, in.FutureTodos[i].ReturnInDays, got.FutureTodos[i].ReturnInDays)
		}
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, Snapshot{Todos: []string{"one"}}))
		require.NoError(t, store.Save(ctx, Snapshot{Todos: []string{"two"}}))

		got, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"two"}, got.Todos)
		assert.Empty(t, got.FutureTodos)
	})

	t.Run("EmptyListsRoundTripAsEmpty", func(t *testing.T) {
		store := setup(t)
		ctx := context.Background()
		require.NoError(t, store.Save(ctx, Snapshot{}))

		got, ok, err := store.Load(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotNil(t, got.Todos)
		assert.NotNil(t, got.FutureTodos)
		assert.Empty(t, got.Todos)
		assert.Empty(t, got.FutureTodos)
	})
}
