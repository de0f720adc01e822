package http

import (
	"net/http"
	"time"

	"github.com/techacademialendaria/lendarios-access/internal/access/store"
	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check
//	@Description	Readiness probe checking critical dependencies, currently database connectivity.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	accesssdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	accesssdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &accesssdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, accesssdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
