package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 3 * time.Second

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadinessCheck is one dependency probed by /readyz. Optional checks are
// reported but never fail the probe.
type ReadinessCheck struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) error
}

// PingCheck wraps a Pinger as a required check.
func PingCheck(name string, p Pinger) ReadinessCheck {
	return ReadinessCheck{Name: name, Required: true, Check: p.PingContext}
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checks []ReadinessCheck
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks ...ReadinessCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Probes the ledger database and the external tools. Only required checks affect the status code.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.checks))
		failed  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, chk := range h.checks {
		g.Go(func() error {
			err := chk.Check(gctx)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				results[chk.Name] = "ok"
			case chk.Required:
				results[chk.Name] = "unavailable"
				failed = true
			default:
				results[chk.Name] = "degraded"
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Checks: results})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Checks: results})
}
