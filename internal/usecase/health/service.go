package health

import (
	"context"
	"time"
)

// Status is the aggregated readiness of the demo backends.
type Status string

const (
	// Healthy means every check passed.
	Healthy Status = "ok"
	// Degraded means only optional checks (the category cache) failed.
	Degraded Status = "degraded"
	// Unhealthy means the search index is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is one component outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 3 * time.Second

// Report aggregates component outcomes keyed by component name.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type check struct {
	name     string
	required bool
	run      func(ctx context.Context) error
}

// Service runs component checks in order, each under its own timeout.
type Service struct {
	checks  []check
	timeout time.Duration
}

// New creates a Service for the search index and, when cache is non-nil, the category cache.
func New(search IndexChecker, index string, cache CachePinger) *Service {
	s := &Service{timeout: DefaultTimeout}
	s.checks = append(s.checks, check{
		name:     "search",
		required: true,
		run:      func(ctx context.Context) error { return search.CheckIndex(ctx, index) },
	})
	if cache != nil {
		s.checks = append(s.checks, check{name: "cache", run: cache.Ping})
	}
	return s
}

// Check runs every component check.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.checks))}
	for _, c := range s.checks {
		if err := s.run(ctx, c); err != nil {
			r.Checks[c.name] = CheckError
			switch {
			case c.required:
				r.Status = Unhealthy
			case r.Status == Healthy:
				r.Status = Degraded
			}
			continue
		}
		r.Checks[c.name] = CheckOK
	}
	return r
}

func (s *Service) run(ctx context.Context, c check) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return c.run(ctx)
}
