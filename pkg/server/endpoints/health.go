package endpoints

import (
	"log"
	"net/http"

	"github.com/doodlesbykumbi/sqladmin-go/pkg/server"
	"github.com/doodlesbykumbi/sqladmin-go/pkg/server/store"
)

// HealthResponse is the body of /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Models   int    `json:"models"`
}

// RegisterHealthEndpoint registers the unauthenticated health check
func RegisterHealthEndpoint(s *server.Server) {
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore, s.Registry.Len())).Methods("GET")
}

func handleHealth(healthStore store.HealthStore, models int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(); err != nil {
			log.Printf("Health check failed: %v", err)
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "unavailable",
				Database: err.Error(),
				Models:   models,
			})
			return
		}

		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Database: "ok",
			Models:   models,
		})
	}
}
