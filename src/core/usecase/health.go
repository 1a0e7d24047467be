package usecase

import (
	"context"
	"log/slog"
	"time"

	"dbclient/src/core/ports"
)

// HealthService probes every registered pool by acquiring and releasing one
// connection.
type HealthService struct {
	log     *slog.Logger
	pools   PoolRegistry
	timeout time.Duration
}

// NewHealthService creates a new HealthService. timeout bounds each probe.
func NewHealthService(pools PoolRegistry, timeout time.Duration, log *slog.Logger) *HealthService {
	return &HealthService{
		log:     log,
		pools:   pools,
		timeout: timeout,
	}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check probes every pool. Overall status is "degraded" when any probe fails.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:     "ok",
		Components: make(map[string]ComponentHealth),
	}

	for _, name := range s.pools.Names() {
		p, err := s.pools.Lookup(name)
		if err != nil {
			continue
		}
		if err := s.probe(ctx, p); err != nil {
			s.log.Warn("pool health check failed", "pool", name, "error", err)
			status.Status = "degraded"
			status.Components["pool:"+name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
			continue
		}
		status.Components["pool:"+name] = ComponentHealth{Status: "healthy"}
	}

	return status
}

func (s *HealthService) probe(ctx context.Context, svc ports.ExternalService) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return svc.Health(ctx)
}
