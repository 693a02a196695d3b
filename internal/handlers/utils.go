package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/internal/store"
)

const maxJSONBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// DetailResponse carries a plain confirmation message.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// resource names an entity in error replies.
type resource struct {
	// singular and plural are used in "Failed to <verb> <noun>" messages.
	singular string
	plural   string
	// label starts "<label> not found." and the default conflict message.
	label string
	// conflict replaces "<label> already exists." when set.
	conflict string
}

func (res resource) conflictMessage() string {
	if res.conflict != "" {
		return res.conflict
	}
	return res.label + " already exists."
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Detail: message})
}

// writeStoreError maps a service or store error onto the HTTP reply. noun is
// the object of the failed verb, e.g. "submittal" or "projects".
func writeStoreError(w http.ResponseWriter, r *http.Request, log *zap.Logger, res resource, verb, noun string, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, services.ErrIDSpaceExhausted):
		writeError(w, http.StatusConflict, "Could not allocate a project ID: "+err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, res.conflictMessage())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, res.label+" not found.")
	default:
		log.Error("store operation failed",
			zap.String("operation", verb+" "+noun),
			zap.String("path", r.URL.Path),
			zap.Bool("schema_not_provisioned", errors.Is(err, store.ErrSchemaNotProvisioned)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to %s %s: %s", verb, noun, store.Message(err)))
	}
}

// writeList replies with items, degrading a missing table to an empty list.
func writeList[T any](w http.ResponseWriter, r *http.Request, log *zap.Logger, res resource, items []T, err error) {
	if errors.Is(err, store.ErrSchemaNotProvisioned) {
		log.Warn("listing from missing table",
			zap.String("path", r.URL.Path),
			zap.Bool("schema_not_provisioned", true),
		)
		writeJSON(w, http.StatusOK, []T{})
		return
	}
	if err != nil {
		writeStoreError(w, r, log, res, "load", res.plural, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}
