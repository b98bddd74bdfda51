package handler

import "net/http"

// Health handles GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	newResponder(nil).json(w, http.StatusOK, map[string]string{"status": "ok"})
}
