package handlers

import (
	"net/http"

	"github.com/healthbridge/backend/utils"
)

// HandleRoot answers GET / with a plain greeting
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World"))
}

// HandleNotFound answers unknown routes with a JSON 404
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w, "endpoint not found")
}
