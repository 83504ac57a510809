package mux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/soheilhy/cmux"

	"job-research/internal/config"
	"job-research/internal/grpc/server"
	"job-research/internal/logging/types"
)

// Multiplexer serves HTTP and gRPC on one port, routing by protocol
type Multiplexer struct {
	cfg    *config.Config
	logger types.Logger

	// Servers
	grpcServer *server.Server
	httpServer *http.Server

	// Multiplexer
	mux      cmux.CMux
	listener net.Listener

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMultiplexer creates a new protocol multiplexer. grpcServer may be nil, in which case
// every connection is handed to the HTTP server.
func NewMultiplexer(cfg *config.Config, grpcServer *server.Server, httpHandler http.Handler, logger types.Logger) *Multiplexer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Multiplexer{
		cfg:        cfg,
		logger:     logger,
		grpcServer: grpcServer,
		ctx:        ctx,
		cancel:     cancel,
		httpServer: &http.Server{
			Handler:           httpHandler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}
}

// Start listens on address and starts both servers in the background
func (m *Multiplexer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return m.Serve(listener)
}

// Serve starts both servers on an existing listener
func (m *Multiplexer) Serve(listener net.Listener) error {
	m.listener = listener
	m.mux = cmux.New(listener)

	var httpListener net.Listener
	if m.grpcServer != nil {
		grpcListener := m.mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
		httpListener = m.mux.Match(cmux.Any())

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			if err := m.grpcServer.Start(grpcListener); err != nil && !isClosedErr(err) {
				m.logger.Error("gRPC server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	} else {
		httpListener = m.mux.Match(cmux.Any())
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) && !isClosedErr(err) {
			m.logger.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.mux.Serve(); err != nil && !isClosedErr(err) {
			m.logger.Error("Multiplexer failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.logger.Info("Multiplexer started successfully", map[string]interface{}{
		"address": listener.Addr().String(),
		"grpc":    m.grpcServer != nil,
	})
	return nil
}

// Stop gracefully shuts down both servers and the shared listener
func (m *Multiplexer) Stop(ctx context.Context) error {
	m.logger.Info("Stopping multiplexer...")
	m.cancel()

	var shutdownErr error
	if err := m.httpServer.Shutdown(ctx); err != nil {
		m.logger.Error("HTTP server shutdown failed", map[string]interface{}{"error": err.Error()})
		shutdownErr = err
	}

	if m.grpcServer != nil {
		m.grpcServer.Stop()
	}

	if m.listener != nil {
		if err := m.listener.Close(); err != nil && !isClosedErr(err) {
			m.logger.Error("Failed to close listener", map[string]interface{}{"error": err.Error()})
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Multiplexer stopped gracefully")
	case <-ctx.Done():
		m.logger.Warn("Multiplexer shutdown timed out")
		if shutdownErr == nil {
			shutdownErr = ctx.Err()
		}
	}

	return shutdownErr
}

// IsHealthy reports whether the multiplexer is serving
func (m *Multiplexer) IsHealthy() bool {
	return m.ctx.Err() == nil && m.listener != nil
}

// GetAddress returns the address the multiplexer is listening on
func (m *Multiplexer) GetAddress() string {
	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return ""
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed) ||
		strings.Contains(err.Error(), "use of closed network connection")
}
