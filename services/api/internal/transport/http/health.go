package http

import "net/http"

// HealthHandler reports liveness. It intentionally skips the database so load
// balancers don't cycle the service during a short Postgres blip.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
