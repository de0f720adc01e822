package http

import (
	"net/http"
	"time"

	"github.com/techacademialendaria/lendarios-access/pkg/accesssdk"
	"github.com/techacademialendaria/lendarios-access/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness Check
//	@Description	Liveness probe returning basic service health, uptime, and version. Always 200 when the process is up.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	accesssdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, accesssdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
