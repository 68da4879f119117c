// Package grpcapi exposes the standard gRPC health service, reporting one
// status per rate provider.
package grpcapi

import (
	"net"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	ipresolver "shipquote/middleware/ip_resolver"
	"shipquote/middleware/timer"
	"shipquote/service"
)

// Providers says which rate providers are configured.
type Providers struct {
	Shippo    bool
	Freightos bool
}

type Server struct {
	GRPC   *grpc.Server
	Health *health.Server
	log    *zap.Logger
}

func NewServer(providers Providers, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gs := grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_recovery.UnaryServerInterceptor(),
			ipresolver.UnaryServerInterceptor(),
			timer.UnaryServerInterceptor(log),
		)),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_recovery.StreamServerInterceptor(),
			ipresolver.StreamServerInterceptor(),
		)),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(service.ProviderShippo, servingStatus(providers.Shippo))
	hs.SetServingStatus(service.ProviderFreightos, servingStatus(providers.Freightos))
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &Server{GRPC: gs, Health: hs, log: log}
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

// Serve blocks until the listener fails or the server stops.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := s.GRPC.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return errors.Wrap(err, "grpc serve")
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.Health.Shutdown()
	s.GRPC.GracefulStop()
}

func Start(addr string, s *Server) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return s.Serve(lis)
}
