package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestManager_ShutdownRunsInReverseOrder(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	var calls []string
	m.Add("store", func(context.Context) error {
		calls = append(calls, "store")
		return nil
	})
	m.Add("publisher", CloseCloser(closerFunc(func() error {
		calls = append(calls, "publisher")
		return errors.New("broker gone")
	})))
	m.Add("http_server", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		require.True(t, ok, "each function gets a deadline")
		calls = append(calls, "http_server")
		return nil
	})

	m.Shutdown()

	// ошибка publisher не мешает закрыть store
	require.Equal(t, []string{"http_server", "publisher", "store"}, calls)
}

func TestManager_WaitReturnsOnContextCancel(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	done := false
	m.Add("flag", func(context.Context) error {
		done = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.Wait(ctx)
	require.True(t, done)

	// повторный вызов ничего не выполняет
	done = false
	m.Shutdown()
	require.False(t, done)
}
