package sequence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipisou/garage/internal/shared/infrastructure/database/dbtest"
	"github.com/pipisou/garage/internal/shared/infrastructure/sequence"
)

func TestGenerator_Next(t *testing.T) {
	ctx := context.Background()
	gen := sequence.NewGenerator(dbtest.Open(t))

	first, err := gen.Next(ctx, "quote")
	require.NoError(t, err)
	second, err := gen.Next(ctx, "quote")
	require.NoError(t, err)
	other, err := gen.Next(ctx, "invoice")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)
}

func TestGenerator_ConcurrentCallersGetDistinctValues(t *testing.T) {
	ctx := context.Background()
	gen := sequence.NewGenerator(dbtest.Open(t))

	const n = 20
	values := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := gen.Next(ctx, "quote")
			assert.NoError(t, err)
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	for v := range values {
		assert.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
}
