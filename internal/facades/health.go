package facades

import (
	"context"

	"github.com/sbilibin2017/smart-todo/internal/logger"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthGRPCFacade queries a grpc.health.v1.Health endpoint.
type HealthGRPCFacade struct {
	client grpc_health_v1.HealthClient
}

// NewHealthGRPCFacade creates a new facade with a gRPC client.
func NewHealthGRPCFacade(client grpc_health_v1.HealthClient) *HealthGRPCFacade {
	return &HealthGRPCFacade{client: client}
}

// IsServing reports whether service is SERVING. An empty service asks about the server as a whole.
func (f *HealthGRPCFacade) IsServing(ctx context.Context, service string) (bool, error) {
	resp, err := f.client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		logger.Log.Errorw("failed to check health via gRPC", "service", service, "error", err)
		return false, err
	}
	return resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING, nil
}
