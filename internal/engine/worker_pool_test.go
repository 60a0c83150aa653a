package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_ProcessesQueuedJobs(t *testing.T) {
	var n atomic.Int64
	var wg sync.WaitGroup
	p := newWorkerPool[int](context.Background(), 3, 10, func(_ context.Context, v int) {
		defer wg.Done()
		n.Add(int64(v))
	})

	for i := 1; i <= 10; i++ {
		wg.Add(1)
		if !p.Submit(i) {
			wg.Done()
			n.Add(int64(i))
		}
	}
	wg.Wait()
	p.Drain()

	assert.Equal(t, int64(55), n.Load())
	assert.False(t, p.Submit(1))
}

func TestWorkerPool_ZeroWorkersRefuses(t *testing.T) {
	p := newWorkerPool[int](context.Background(), 0, 10, func(context.Context, int) {})
	assert.False(t, p.Submit(1))
	assert.Equal(t, 0, p.QueueCap())
	p.Drain()
}
