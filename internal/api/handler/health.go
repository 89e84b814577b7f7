package handler

import (
	"net/http"

	"github.com/deskbook/deskbook/internal/api/response"
	"github.com/deskbook/deskbook/internal/repository/postgres"
	"github.com/go-playground/validator/v10"
)

// validate is the shared payload-shape validator for request bodies.
// Business rules live in the booking package, not here.
var validate = validator.New()

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including database connectivity
func ReadyCheck(db *postgres.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
