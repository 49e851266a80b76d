package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Check is one named readiness probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// CheckResult represents the health of a single dependency.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResult is the top-level health response.
type HealthResult struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// Checker runs readiness probes against the store backend and whatever the
// storefront needs from it before serving.
type Checker struct {
	checks  []Check
	timeout time.Duration
	logger  *slog.Logger
	gauge   *prometheus.GaugeVec
}

func NewChecker(logger *slog.Logger, reg prometheus.Registerer, checks ...Check) *Checker {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "health_check_up",
		Help:      "Whether a readiness check passes. 1 = up, 0 = down.",
	}, []string{"dependency"})
	reg.MustRegister(gauge)

	return &Checker{
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  logger.With("component", "health"),
		gauge:   gauge,
	}
}

// Liveness returns a simple "up" response if the process is running.
func (c *Checker) Liveness(_ context.Context) HealthResult {
	return HealthResult{Status: "up"}
}

// Readiness runs every check in order under one shared timeout. A single
// failing check marks the whole result down.
func (c *Checker) Readiness(ctx context.Context) HealthResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := HealthResult{
		Status: "up",
		Checks: make(map[string]CheckResult, len(c.checks)),
	}

	for _, check := range c.checks {
		if err := check.Probe(checkCtx); err != nil {
			c.logger.Warn("readiness check failed", "check", check.Name, "error", err)
			result.Status = "down"
			result.Checks[check.Name] = CheckResult{Status: "down", Error: err.Error()}
			c.gauge.WithLabelValues(check.Name).Set(0)
			continue
		}
		result.Checks[check.Name] = CheckResult{Status: "up"}
		c.gauge.WithLabelValues(check.Name).Set(1)
	}

	return result
}
