package transport

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server is the bridge's control endpoint: a gRPC server carrying the
// standard health service so orchestrators can probe readiness.
type Server struct {
	grpc   *grpc.Server
	lis    net.Listener
	health *health.Server
}

func StartServer(port int) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	s := &Server{
		grpc:   grpc.NewServer(),
		lis:    lis,
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s, nil
}

// SetServing flips the health status; the engine calls it once the
// bridge is running and again on shutdown.
func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
}

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
