// Package health implements the liveness and readiness probes of the
// query service. searchd registers one probe per dependency (artifacts,
// redis, postgres); probes run in registration order and the worst
// result decides readiness. Optional dependencies report degraded, which
// still counts as ready: the service answers queries without them.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/minisearch-labs/searchrank/pkg/logger"
)

// Status of a probe or of the service overall.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Result is the outcome of one probe.
type Result struct {
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Elapsed string `json:"elapsed,omitempty"`
}

// Probe inspects a single dependency.
type Probe func(ctx context.Context) Result

type namedProbe struct {
	name  string
	probe Probe
}

// Checker runs registered probes in registration order. Registration
// happens once during startup; after that the Checker is read-only and
// safe for concurrent Report calls.
type Checker struct {
	probes []namedProbe
	logger *slog.Logger
}

func NewChecker() *Checker {
	return &Checker{logger: logger.WithComponent("health")}
}

func (c *Checker) Register(name string, p Probe) {
	c.probes = append(c.probes, namedProbe{name: name, probe: p})
}

// Report runs every probe sequentially and returns the worst status
// together with the per-probe results.
func (c *Checker) Report(ctx context.Context) (Status, map[string]Result) {
	overall := StatusUp
	results := make(map[string]Result, len(c.probes))
	for _, np := range c.probes {
		start := time.Now()
		res := np.probe(ctx)
		res.Elapsed = time.Since(start).Round(time.Millisecond).String()
		results[np.name] = res

		switch res.Status {
		case StatusDown:
			c.logger.Warn("dependency down", "probe", np.name, "detail", res.Detail)
			overall = StatusDown
		case StatusDegraded:
			if overall == StatusUp {
				overall = StatusDegraded
			}
		}
	}
	return overall, results
}

// LiveHandler answers liveness probes: the process is running.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

// ReadyHandler answers readiness probes. Only a down dependency makes the
// service not ready; degraded optional dependencies do not.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		overall, results := c.Report(ctx)
		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    overall,
			"probes":    results,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
