package internal

import "context"

// HealthState is the result of the backend connectivity probe
type HealthState int

const (
	HealthChecking HealthState = iota
	HealthOnline
	HealthOffline
)

func (h HealthState) String() string {
	switch h {
	case HealthOnline:
		return "online"
	case HealthOffline:
		return "offline"
	default:
		return "checking"
	}
}

// ProbeHealth performs one health check. Any error, including a non-2xx
// status, maps to HealthOffline.
func ProbeHealth(ctx context.Context, b Backend) (HealthState, error) {
	if _, err := b.CheckHealth(ctx); err != nil {
		return HealthOffline, err
	}
	return HealthOnline, nil
}
