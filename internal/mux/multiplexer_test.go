package mux

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"job-research/internal/config"
	"job-research/internal/grpc/server"
	"job-research/internal/logging"
)

type alwaysHealthy struct{}

func (alwaysHealthy) IsHealthy() bool { return true }

func TestMultiplexerServesHTTPAndGRPC(t *testing.T) {
	cfg := config.Default()
	logger := logging.NewNopLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	grpcServer := server.NewServer(cfg, alwaysHealthy{}, alwaysHealthy{}, logger)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := NewMultiplexer(cfg, grpcServer, handler, logger)
	require.NoError(t, m.Serve(lis))
	assert.True(t, m.IsHealthy())
	addr := m.GetAddress()

	resp, err := http.Get("http://" + addr + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: server.ResearchService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.GetStatus())
	require.NoError(t, conn.Close())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, m.Stop(stopCtx))
	assert.False(t, m.IsHealthy())
}

func TestMultiplexerHTTPOnly(t *testing.T) {
	cfg := config.Default()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := NewMultiplexer(cfg, nil, handler, logging.NewNopLogger())
	require.NoError(t, m.Serve(lis))

	resp, err := http.Get("http://" + m.GetAddress() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, m.Stop(context.Background()))
}
