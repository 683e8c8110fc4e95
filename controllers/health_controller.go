package controllers

import "net/http"

const rootMessage = "AI Recipe Backend is running 🚀"

func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

// Health reports liveness and the configured model.
func Health(model string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"model":  model,
		})
	}
}
