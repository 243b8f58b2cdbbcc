package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-insta-resolver/internal/config"
)

func TestNewServer_UsesConfig(t *testing.T) {
	cfg := config.Config{
		Port:              "5000",
		ReadTimeout:       2 * time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       4 * time.Second,
		MaxHeaderBytes:    4096,
	}
	srv := newServer(cfg, http.NotFoundHandler())

	assert.Equal(t, "0.0.0.0:5000", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.ReadTimeout)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 3*time.Second, srv.WriteTimeout)
	assert.Equal(t, 4*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4096, srv.MaxHeaderBytes)
}

func TestServe_CancelClosesWithoutDrainAndFlushes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	srv := &http.Server{Handler: mux}

	ctx, cancel := context.WithCancel(context.Background())
	flushed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, ln, func(context.Context) error {
			flushed <- struct{}{}
			return nil
		})
	}()

	clientErr := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		clientErr <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return promptly after cancellation")
	}
	assert.Len(t, flushed, 1)

	// The in-flight request was cut off, not completed.
	select {
	case err := <-clientErr:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight client was not disconnected")
	}
}

func TestServe_ListenerErrorIsReturned(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	flushErr := errors.New("flush failed")
	err = serve(context.Background(), &http.Server{Handler: http.NotFoundHandler()}, ln,
		func(context.Context) error { return flushErr })
	require.Error(t, err)
	assert.NotErrorIs(t, err, flushErr)
}
