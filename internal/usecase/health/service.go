package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the search path is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the search dependencies.
type Service struct {
	index     IndexPinger
	behavior  BehaviorPinger
	embedding EmbeddingChecker
}

// New creates a Service. behavior and embedding can be nil.
func New(index IndexPinger, behavior BehaviorPinger, embedding EmbeddingChecker) *Service {
	return &Service{index: index, behavior: behavior, embedding: embedding}
}

// Check runs health checks against all components. The index carries the
// search path, so its failure marks the whole service unhealthy; behavior
// and embedding failures only degrade it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	indexDown := false
	if err := s.index.Ping(ctx); err != nil {
		checks["index"] = CheckError
		indexDown = true
	} else {
		checks["index"] = CheckOK
	}

	if s.behavior != nil {
		if err := s.behavior.Ping(ctx); err != nil {
			checks["behavior"] = CheckError
		} else {
			checks["behavior"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if indexDown {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
