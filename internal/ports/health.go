package ports

import "context"

// HealthStatus is the outcome of a single dependency probe.
type HealthStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// HealthChecker is implemented by adapters that can report their own
// availability.
type HealthChecker interface {
	// CheckHealth probes the dependency. It must respect ctx deadlines.
	CheckHealth(ctx context.Context) HealthStatus
}
