package ports

import (
	"context"
)

// ExternalService is the base interface for components the health check probes.
type ExternalService interface {
	// Health checks if the component can serve requests.
	Health(ctx context.Context) error
}
