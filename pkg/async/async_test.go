package async_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eidsession/pkg/async"
)

func TestGo(t *testing.T) {
	t.Parallel()

	t.Run("returns the function result", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(context.Context) (string, error) {
			return "done", nil
		})
		v, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "done", v)
		assert.True(t, f.IsComplete())
	})

	t.Run("propagates errors", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := async.Go(context.Background(), func(context.Context) (int, error) {
			return 0, boom
		}).Await()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context skips the function", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		_, err := async.Go(ctx, func(context.Context) (int, error) {
			called = true
			return 1, nil
		}).Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestPromise(t *testing.T) {
	t.Parallel()

	t.Run("first resolve wins", func(t *testing.T) {
		t.Parallel()
		p := async.NewPromise[int]()
		assert.False(t, p.Future().IsComplete())

		var wg sync.WaitGroup
		wins := make(chan bool, 10)
		for i := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				wins <- p.Resolve(i, nil)
			}()
		}
		wg.Wait()
		close(wins)

		n := 0
		for w := range wins {
			if w {
				n++
			}
		}
		assert.Equal(t, 1, n)
		_, err := p.Future().Await()
		assert.NoError(t, err)
	})

	t.Run("resolved helper", func(t *testing.T) {
		t.Parallel()
		f := async.Resolved("x", nil)
		select {
		case <-f.Done():
		default:
			t.Fatal("resolved future must be complete")
		}
		v, _ := f.Await()
		assert.Equal(t, "x", v)
	})
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	p := async.NewPromise[int]()
	_, err := p.Future().AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)

	p.Resolve(7, nil)
	v, err := p.Future().AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := async.NewPromise[int]().Future().AwaitContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
