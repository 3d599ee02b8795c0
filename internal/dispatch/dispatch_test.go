package dispatch_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/outpostmon/redisq/internal/dispatch"
)

func TestGoRunsEveryTask(t *testing.T) {
	const n = 500
	var count int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		dispatch.Go(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not every dispatched task ran")
	}
	assert.Equal(t, int64(n), atomic.LoadInt64(&count))
}
