package memstorage

import (
	"context"
	"github.com/denismitr/tally/internal/data"
	"github.com/denismitr/tally/internal/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestMemStorage(t *testing.T) {
	ctx := context.Background()
	s := New()

	records, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 0)

	a := data.Record{Diameter: 3, Length: 12, Volume: 84.8, Weight: 89.06, Category: data.Latin}
	b := data.Record{Diameter: 4, Length: 15, Volume: 188.5, Weight: 197.9, Category: data.Asian}
	c := data.Record{Diameter: 2, Length: 8, Volume: 25.1, Weight: 26.4, Category: data.Other}

	require.NoError(t, s.Append(ctx, a))
	require.NoError(t, s.Append(ctx, b))
	require.NoError(t, s.Append(ctx, c))

	t.Run("loaded records do not alias stored ones", func(t *testing.T) {
		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, loaded, 3)

		loaded[0].Category = data.African

		again, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, data.Latin, again[0].Category)
	})

	t.Run("remove by offset keeps relative order", func(t *testing.T) {
		require.NoError(t, s.RemoveAt(ctx, 1))

		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []data.Record{a, c}, loaded)

		assert.True(t, errors.Is(s.RemoveAt(ctx, 2), storage.ErrOffsetOutOfRange))
	})

	t.Run("save replaces everything and copies the input", func(t *testing.T) {
		in := []data.Record{b}
		require.NoError(t, s.Save(ctx, in))
		in[0].Length = 99

		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []data.Record{b}, loaded)
	})
}
