//go:build !integration

package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestPool(workers, queue int) *Pool {
	logger := zerolog.Nop()
	return NewPool(workers, queue, &logger)
}

func TestPool(t *testing.T) {
	t.Run("same key runs in submission order", func(t *testing.T) {
		p := newTestPool(4, 64)
		p.Start(context.Background())

		var mu sync.Mutex
		var got []int
		for i := 0; i < 50; i++ {
			i := i
			err := p.Submit(context.Background(), 42, func(ctx context.Context) error {
				mu.Lock()
				got = append(got, i)
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}
		p.Stop()

		if len(got) != 50 {
			t.Fatalf("expected 50 tasks, got %d", len(got))
		}
		for i, v := range got {
			if v != i {
				t.Fatalf("out of order at %d: %v", i, got)
			}
		}
	})

	t.Run("stop drains queued tasks", func(t *testing.T) {
		p := newTestPool(2, 16)
		p.Start(context.Background())

		var mu sync.Mutex
		done := 0
		for i := int64(0); i < 10; i++ {
			p.Submit(context.Background(), i, func(ctx context.Context) error {
				time.Sleep(time.Millisecond)
				mu.Lock()
				done++
				mu.Unlock()
				return nil
			})
		}
		p.Stop()

		if done != 10 {
			t.Errorf("expected all 10 tasks to finish, got %d", done)
		}
	})

	t.Run("submit after stop fails", func(t *testing.T) {
		p := newTestPool(1, 1)
		p.Start(context.Background())
		p.Stop()
		p.Stop()

		err := p.Submit(context.Background(), 1, func(ctx context.Context) error { return nil })
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("expected ErrPoolClosed, got %v", err)
		}
	})

	t.Run("task errors and panics do not stop the worker", func(t *testing.T) {
		p := newTestPool(1, 4)
		p.Start(context.Background())

		ran := make(chan struct{})
		p.Submit(context.Background(), 1, func(ctx context.Context) error { return errors.New("boom") })
		p.Submit(context.Background(), 1, func(ctx context.Context) error { panic("bad handler") })
		p.Submit(context.Background(), 1, func(ctx context.Context) error { close(ran); return nil })

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after a failing task")
		}
		p.Stop()
	})

	t.Run("submit honours context when the queue is full", func(t *testing.T) {
		p := newTestPool(1, 1)
		block := make(chan struct{})
		p.Start(context.Background())
		defer func() {
			close(block)
			p.Stop()
		}()

		p.Submit(context.Background(), 1, func(ctx context.Context) error { <-block; return nil })
		// Give the worker time to pick up the blocking task, then fill the queue.
		time.Sleep(20 * time.Millisecond)
		p.Submit(context.Background(), 1, func(ctx context.Context) error { return nil })

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := p.Submit(ctx, 1, func(ctx context.Context) error { return nil })
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("negative keys map to a valid shard", func(t *testing.T) {
		p := newTestPool(3, 1)
		if s := p.shardFor(-1001234567890); s < 0 || s >= 3 {
			t.Errorf("shard %d out of range", s)
		}
	})
}
