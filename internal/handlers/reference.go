package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/types"
)

var eorResource = resource{
	singular: "EOR",
	plural:   "EOR list",
	label:    "EOR",
	conflict: "EOR already exists for this type.",
}

// ReferenceRequest is the body for the name-only lists.
type ReferenceRequest struct {
	Name string `json:"name"`
}

// ReferenceHandler serves one name-only lookup list.
type ReferenceHandler struct {
	service *services.ReferenceService
	res     resource
	log     *zap.Logger
}

func NewReferenceHandler(service *services.ReferenceService, log *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{service: service, res: referenceResource(service.Kind()), log: log}
}

func referenceResource(kind types.ReferenceKind) resource {
	label := kind.Label()
	plural := label + "s"
	if kind == types.ReferenceAOR {
		plural = "AOR list"
	}
	return resource{singular: label, plural: plural, label: label}
}

// ReferenceRouter registers list/create on "/" and update/delete on "/{id}".
func ReferenceRouter(r chi.Router, handler *ReferenceHandler) {
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Put("/{id}", handler.Update)
	r.Delete("/{id}", handler.Delete)
}

func (h *ReferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.List(r.Context())
	writeList(w, r, h.log, h.res, refs, err)
}

func (h *ReferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ReferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ref, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, r, h.log, h.res, "create", h.res.singular, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (h *ReferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req ReferenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ref, err := h.service.Update(r.Context(), id, req.Name)
	if err != nil {
		writeStoreError(w, r, h.log, h.res, "update", h.res.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

func (h *ReferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, h.log, h.res, "delete", h.res.singular, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EORHandler serves engineers of record.
type EORHandler struct {
	service *services.EORService
	log     *zap.Logger
}

func NewEORHandler(service *services.EORService, log *zap.Logger) *EORHandler {
	return &EORHandler{service: service, log: log}
}

// EORRouter registers the EOR routes; GET accepts an optional ?type= filter.
func EORRouter(r chi.Router, handler *EORHandler) {
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Put("/{id}", handler.Update)
	r.Delete("/{id}", handler.Delete)
}

func (h *EORHandler) List(w http.ResponseWriter, r *http.Request) {
	eors, err := h.service.List(r.Context(), r.URL.Query().Get("type"))
	writeList(w, r, h.log, eorResource, eors, err)
}

func (h *EORHandler) Create(w http.ResponseWriter, r *http.Request) {
	var eor types.EOR
	if !decodeJSON(w, r, &eor) {
		return
	}

	created, err := h.service.Create(r.Context(), eor)
	if err != nil {
		writeStoreError(w, r, h.log, eorResource, "create", eorResource.singular, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EORHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var eor types.EOR
	if !decodeJSON(w, r, &eor) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, eor)
	if err != nil {
		writeStoreError(w, r, h.log, eorResource, "update", eorResource.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EORHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, h.log, eorResource, "delete", eorResource.singular, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
