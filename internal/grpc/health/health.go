package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"legal-literacy-portal/pkg/logger"
)

// ServiceName is the service reported alongside the overall "" status
const ServiceName = "legalportal.v1.Portal"

// Pinger is a dependency whose reachability decides serving status
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor keeps a gRPC health server in sync with its dependencies
type Monitor struct {
	server   *health.Server
	deps     map[string]Pinger
	interval time.Duration
	logger   *logger.Logger
}

// NewMonitor creates a monitor over the named dependencies. Nil entries are skipped.
func NewMonitor(deps map[string]Pinger, interval time.Duration, log *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	live := make(map[string]Pinger, len(deps))
	for name, d := range deps {
		if d != nil {
			live[name] = d
		}
	}

	m := &Monitor{
		server:   health.NewServer(),
		deps:     live,
		interval: interval,
		logger:   log.WithComponent("grpc-health"),
	}
	m.set(grpc_health_v1.HealthCheckResponse_SERVING)
	return m
}

// Register attaches the health service to grpcServer
func (m *Monitor) Register(grpcServer *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(grpcServer, m.server)
}

// Server exposes the underlying health server
func (m *Monitor) Server() *health.Server {
	return m.server
}

// Run re-checks dependencies every interval until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check pings every dependency once and updates the serving status
func (m *Monitor) Check(ctx context.Context) bool {
	healthy := true
	for name, d := range m.deps {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := d.Ping(pingCtx)
		cancel()
		if err != nil {
			healthy = false
			m.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
		}
	}

	if healthy {
		m.set(grpc_health_v1.HealthCheckResponse_SERVING)
	} else {
		m.set(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
	return healthy
}

func (m *Monitor) set(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
}
