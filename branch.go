package hlod

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

// Branches runs sibling tasks and joins them. Wait only blocks on the
// branches registered before it was called.
//
// The first failing branch cancels the context handed to its siblings. Wait
// still lets every joined branch finish before returning, so callers may
// release shared resources as soon as it does.
type Branches struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	branches []*branch
	notify   chan struct{}
	failed   atomic.Pointer[branch]
}

type branch struct {
	done     chan struct{}
	err      error
	progress atomic.Uint32
}

func (b *branch) fraction() float32 {
	return math.Float32frombits(b.progress.Load())
}

func NewBranches(ctx context.Context) *Branches {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Branches{
		ctx:    ctx,
		cancel: cancel,
		notify: make(chan struct{}, 1),
	}
}

func (bs *Branches) signal() {
	select {
	case bs.notify <- struct{}{}:
	default:
	}
}

// Go starts fn as a new branch.
func (bs *Branches) Go(fn func(ctx context.Context, onProgress func(float32)) error) {
	br := &branch{done: make(chan struct{})}

	bs.mu.Lock()
	bs.branches = append(bs.branches, br)
	bs.mu.Unlock()

	go func() {
		defer func() {
			br.progress.Store(math.Float32bits(1))
			close(br.done)
			bs.signal()
		}()

		br.err = fn(bs.ctx, func(f float32) {
			br.progress.Store(math.Float32bits(clamp01(f)))
			bs.signal()
		})
		if br.err != nil {
			bs.failed.CompareAndSwap(nil, br)
			bs.cancel(br.err)
		}
	}()
}

// Wait joins the branches registered so far, reporting their mean progress,
// and returns the error of the first branch that failed.
func (bs *Branches) Wait(onProgress func(float32)) error {
	bs.mu.Lock()
	joined := append([]*branch(nil), bs.branches...)
	bs.mu.Unlock()

	if len(joined) == 0 {
		if onProgress != nil {
			onProgress(1)
		}
		return nil
	}

	last := float32(-1)
	for {
		finished := 0
		var sum float32
		for _, br := range joined {
			select {
			case <-br.done:
				finished++
			default:
			}
			sum += br.fraction()
		}

		if p := sum / float32(len(joined)); onProgress != nil && p > last {
			onProgress(p)
			last = p
		}
		if finished == len(joined) {
			break
		}
		<-bs.notify
	}

	firstErr := firstBranchError(joined)
	if firstErr == nil {
		return nil
	}
	if failed := bs.failed.Load(); failed != nil {
		for _, br := range joined {
			if br == failed {
				return br.err
			}
		}
	}
	return firstErr
}

// Close releases the context of the branch set.
func (bs *Branches) Close() {
	bs.cancel(context.Canceled)
}

func firstBranchError(branches []*branch) error {
	for _, br := range branches {
		if br.err != nil {
			return br.err
		}
	}
	return nil
}

func clamp01(f float32) float32 {
	return min(max(f, 0), 1)
}
