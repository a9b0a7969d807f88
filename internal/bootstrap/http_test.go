package bootstrap

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runconsole/config"
)

func TestNewHTTPServer(t *testing.T) {
	_, err := NewHTTPServer(nil)
	require.Error(t, err)

	server, err := NewHTTPServer(&HTTPServerConfig{
		Config: &config.AppConfig{HTTP: config.HTTPConfig{CompressionEnabled: true, CompressionLevel: 5}},
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, ":8080", server.Addr)
	assert.Equal(t, 2*time.Minute, server.WriteTimeout)
}

func TestHealthChecks_NoBackends(t *testing.T) {
	assert.Empty(t, HealthChecks(nil, nil))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	server, err := NewHTTPServer(&HTTPServerConfig{
		Config: &config.AppConfig{HTTP: config.HTTPConfig{Addr: "127.0.0.1:0"}},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, server, ln, discardLogger()) }()

	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}

	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
