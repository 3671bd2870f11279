package httpserver_test

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/pkg/httpserver"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestServer_RunUntilCancelled(t *testing.T) {
	t.Parallel()

	ln := listen(t)
	var hooks atomic.Int32
	srv := httpserver.New(httpserver.Config{ShutdownTimeout: time.Second},
		httpserver.WithListener(ln),
		httpserver.OnShutdown(func(ctx context.Context) {
			assert.NoError(t, ctx.Err())
			hooks.Add(1)
		}),
	)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, int32(1), hooks.Load())
}

func TestServer_DrainsInFlightRequests(t *testing.T) {
	t.Parallel()

	ln := listen(t)
	srv := httpserver.New(httpserver.Config{ShutdownTimeout: 2 * time.Second}, httpserver.WithListener(ln))

	started := make(chan struct{})
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			time.Sleep(200 * time.Millisecond)
			assert.NoError(t, r.Context().Err(), "request context survives shutdown")
			w.WriteHeader(http.StatusOK)
		}))
	}()

	result := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			result <- 0
			return
		}
		_ = resp.Body.Close()
		result <- resp.StatusCode
	}()

	<-started
	cancel()
	assert.Equal(t, http.StatusOK, <-result)
	require.NoError(t, <-done)
}

func TestServer_StartFailure(t *testing.T) {
	t.Parallel()

	taken := listen(t)
	t.Cleanup(func() { _ = taken.Close() })

	srv := httpserver.New(httpserver.Config{Addr: taken.Addr().String()})
	err := srv.Run(t.Context(), http.NotFoundHandler())
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServer_RunTwice(t *testing.T) {
	t.Parallel()

	ln := listen(t)
	srv := httpserver.New(httpserver.Config{}, httpserver.WithListener(ln))
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.NotFoundHandler()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, srv.Run(ctx, http.NotFoundHandler()), httpserver.ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
}

func TestServer_RunAgainAfterStop(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.NoError(t, srv.Run(ctx, http.NotFoundHandler()))
	require.NoError(t, srv.Run(ctx, http.NotFoundHandler()), "a stopped server can run again")
}
