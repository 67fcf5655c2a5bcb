package scene

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AccountsAndReleases(t *testing.T) {
	pool := NewPool(0)
	a := pool.NewArena()
	b := pool.NewArena()

	vs, err := a.Vec3s(10)
	require.NoError(t, err)
	assert.Len(t, vs, 10)
	is, err := b.Uint32s(6)
	require.NoError(t, err)
	assert.Len(t, is, 6)

	assert.Equal(t, int64(120), a.Bytes())
	assert.Equal(t, int64(144), pool.InUse())
	assert.Equal(t, int64(2), pool.LiveArenas())

	a.Dispose()
	a.Dispose()
	assert.True(t, a.Disposed())
	assert.Equal(t, int64(24), pool.InUse())
	assert.Equal(t, int64(1), pool.LiveArenas())
	assert.Equal(t, int64(1), pool.Releases())

	b.Dispose()
	assert.Equal(t, int64(0), pool.InUse())
	assert.Equal(t, int64(2), pool.Releases())
}

func TestArena_Budget(t *testing.T) {
	pool := NewPool(100)
	a := pool.NewArena()
	defer a.Dispose()

	_, err := a.Vec3s(8)
	require.NoError(t, err)
	_, err = a.Vec3s(1)
	require.ErrorIs(t, err, ErrOutOfWorkingMemory)
	assert.Equal(t, 1, a.Allocations())
	assert.Equal(t, int64(96), pool.InUse())

	_, err = a.Uint32s(1)
	assert.NoError(t, err)
}

func TestArena_DisposedArenaRefusesAllocations(t *testing.T) {
	pool := NewPool(0)
	a := pool.NewArena()
	a.Dispose()

	_, err := a.Uint32s(3)
	require.ErrorIs(t, err, ErrOutOfWorkingMemory)
	assert.Equal(t, int64(0), pool.InUse())

	empty, err := a.Vec3s(0)
	assert.NoError(t, err)
	assert.Nil(t, empty)
}

func TestPool_ConcurrentArenas(t *testing.T) {
	pool := NewPool(0)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := pool.NewArena()
			for j := 0; j < 10; j++ {
				if _, err := a.Uint32s(4); err != nil {
					t.Error(err)
				}
			}
			a.Dispose()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), pool.InUse())
	assert.Equal(t, int64(0), pool.LiveArenas())
	assert.Equal(t, int64(32), pool.Releases())
}
