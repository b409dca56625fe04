package health

import (
	"net"
	"time"

	"github.com/sbilibin2017/smart-todo/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported by the health service for the HTTP API.
const ServiceName = "smart-todo"

// StopTimeout bounds how long Stop waits for open RPCs, such as Watch streams, to finish.
const StopTimeout = 5 * time.Second

// Server exposes grpc.health.v1.Health for the application.
type Server struct {
	grpcServer  *grpc.Server
	health      *health.Server
	stopTimeout time.Duration
}

// New creates a health server. Every service starts as NOT_SERVING.
func New() *Server {
	s := &Server{
		grpcServer:  grpc.NewServer(),
		health:      health.NewServer(),
		stopTimeout: StopTimeout,
	}
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.health)
	s.SetServing(false)
	return s
}

// SetServing updates the status of both the overall server and ServiceName.
func (s *Server) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	logger.Log.Infow("health status changed", "status", status.String())
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	logger.Log.Infow("gRPC health server started", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

// Stop marks every service NOT_SERVING and stops the server gracefully.
// Connections still open after stopTimeout are closed forcibly.
func (s *Server) Stop() {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(s.stopTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		logger.Log.Warnw("gRPC health server did not stop in time, closing connections", "timeout", s.stopTimeout)
		s.grpcServer.Stop()
		<-done
	}
}
