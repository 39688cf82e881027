package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownManagerRunsRegisteredFuncs(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)
	server := &http.Server{Addr: "127.0.0.1:0"}

	sm := NewShutdownManager(logger, server, 5*time.Second)

	var calls int32
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- sm.WaitForShutdown()
	}()

	// Give WaitForShutdown time to install the signal handler.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestShutdownManagerReportsErrors(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)

	sm := NewShutdownManager(logger, nil, 5*time.Second)
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		return errors.New("redis close failed")
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- sm.WaitForShutdown()
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis close failed")
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}

func TestShutdownManagerDefaultTimeout(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)
	sm := NewShutdownManager(logger, nil, 0)
	assert.Equal(t, 30*time.Second, sm.shutdownTimeout)
}
