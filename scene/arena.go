package scene

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrOutOfWorkingMemory = errors.New("scene: out of working memory")

// Pool hands out arenas that share one working memory budget.
type Pool struct {
	budget   int64
	used     atomic.Int64
	live     atomic.Int64
	released atomic.Int64
}

// NewPool creates a pool. A budget <= 0 means unlimited.
func NewPool(budget int64) *Pool {
	return &Pool{budget: budget}
}

func (p *Pool) NewArena() *Arena {
	p.live.Add(1)
	return &Arena{pool: p}
}

// InUse is the number of bytes held by arenas that were not disposed yet.
func (p *Pool) InUse() int64 { return p.used.Load() }

// LiveArenas counts arenas created and not yet disposed.
func (p *Pool) LiveArenas() int64 { return p.live.Load() }

// Releases counts arena disposals.
func (p *Pool) Releases() int64 { return p.released.Load() }

func (p *Pool) reserve(n int64) error {
	for {
		cur := p.used.Load()
		if p.budget > 0 && cur+n > p.budget {
			return fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrOutOfWorkingMemory, n, cur, p.budget)
		}
		if p.used.CompareAndSwap(cur, cur+n) {
			return nil
		}
	}
}

// Arena owns the working buffers of one build record. Buffers are only valid
// until Dispose.
type Arena struct {
	pool *Pool

	mu       sync.Mutex
	bytes    int64
	allocs   int
	disposed bool
}

const (
	vec3Bytes   = 12
	uint32Bytes = 4
)

func (a *Arena) reserve(n int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return fmt.Errorf("%w: arena already disposed", ErrOutOfWorkingMemory)
	}
	if err := a.pool.reserve(n); err != nil {
		return err
	}
	a.bytes += n
	a.allocs++
	return nil
}

func (a *Arena) Vec3s(n int) ([]mgl32.Vec3, error) {
	if n == 0 {
		return nil, nil
	}
	if err := a.reserve(int64(n) * vec3Bytes); err != nil {
		return nil, err
	}
	return make([]mgl32.Vec3, n), nil
}

func (a *Arena) Uint32s(n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	if err := a.reserve(int64(n) * uint32Bytes); err != nil {
		return nil, err
	}
	return make([]uint32, n), nil
}

// Allocations counts successful buffer allocations.
func (a *Arena) Allocations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

func (a *Arena) Bytes() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bytes
}

func (a *Arena) Disposed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disposed
}

// Dispose returns every buffer to the pool. Calling it again is a no-op.
func (a *Arena) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return
	}
	a.disposed = true
	a.pool.used.Add(-a.bytes)
	a.pool.live.Add(-1)
	a.pool.released.Add(1)
	a.bytes = 0
}
