// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// AccessHandler handles tool access requests.
type AccessHandler struct {
	deps Dependencies
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(deps Dependencies) *AccessHandler {
	return &AccessHandler{deps: deps}
}

// HandleGetAccess handles GET /access/{customer_id} requests. The response
// maps tool ids to their unlock decisions; customers with no profile yet get
// the zero-profile evaluation rather than a 404.
func (h *AccessHandler) HandleGetAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /access/
	path := strings.TrimPrefix(r.URL.Path, "/access/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	access, err := h.deps.ToolAccessStatus(r.Context(), path)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, access)
}
