package http

import (
	"net/http"
	"time"

	"github.com/lexvault/docsign/internal/docsign/store"
	"github.com/lexvault/docsign/pkg/httpx"
)

// ReadyzHandler reports readiness; the only hard dependency is the database.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
