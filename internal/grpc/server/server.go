package server

import (
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"job-research/internal/config"
	"job-research/internal/grpc/interceptors"
	"job-research/internal/logging/types"
)

// Health service names reported alongside the overall "" service
const (
	ResearchService = "research"
	LLMService      = "llm"
)

const healthRefreshInterval = 5 * time.Second

// HealthChecker reports whether a dependency can serve requests
type HealthChecker interface {
	IsHealthy() bool
}

// Server exposes the standard gRPC health service backed by the orchestrator and LLM health
type Server struct {
	cfg        *config.Config
	research   HealthChecker
	llm        HealthChecker
	logger     types.Logger
	grpcServer *grpc.Server
	health     *health.Server

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewServer builds the gRPC server with health and reflection registered
func NewServer(cfg *config.Config, research, llm HealthChecker, logger types.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Enable reflection for debugging
	reflection.Register(grpcServer)

	s := &Server{
		cfg:        cfg,
		research:   research,
		llm:        llm,
		logger:     logger,
		grpcServer: grpcServer,
		health:     hs,
		stopCh:     make(chan struct{}),
	}
	s.RefreshHealth()
	return s
}

// Start serves on lis until Stop is called
func (s *Server) Start(lis net.Listener) error {
	go s.watchHealth()

	s.logger.Info("Starting gRPC server", map[string]interface{}{
		"address": lis.Addr().String(),
	})

	return s.grpcServer.Serve(lis)
}

// RefreshHealth copies dependency health into the health service
func (s *Server) RefreshHealth() {
	researchOK := s.research != nil && s.research.IsHealthy()
	llmOK := s.llm == nil || s.llm.IsHealthy()

	s.health.SetServingStatus(ResearchService, servingStatus(researchOK))
	s.health.SetServingStatus(LLMService, servingStatus(llmOK))
	s.health.SetServingStatus("", servingStatus(researchOK))
}

func (s *Server) watchHealth() {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RefreshHealth()
		case <-s.stopCh:
			return
		}
	}
}

// Stop marks every service NOT_SERVING and drains in-flight calls
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Shutting down gRPC server...")
		close(s.stopCh)
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	})
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
