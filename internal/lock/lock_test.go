package lock_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-loyalty/internal/lock"
)

func TestLocalSerialisesSameKey(t *testing.T) {
	var locker lock.Local
	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), "customer:1", 0, func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestLocalPropagatesCallbackError(t *testing.T) {
	var locker lock.Local
	boom := errors.New("boom")
	err := locker.WithLock(context.Background(), "k", 0, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	// lock is released after an error
	err = locker.WithLock(context.Background(), "k", 0, func(context.Context) error { return nil })
	require.NoError(t, err)
}

func TestLocalHonoursContext(t *testing.T) {
	var locker lock.Local
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = locker.WithLock(context.Background(), "k", 0, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := locker.WithLock(ctx, "k", 0, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
