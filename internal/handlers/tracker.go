package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/types"
)

var (
	submittalResource  = resource{singular: "submittal", plural: "submittals", label: "Submittal"}
	rfiResource        = resource{singular: "RFI", plural: "RFIs", label: "RFI"}
	actionItemResource = resource{singular: "action item", plural: "action items", label: "Action item"}
)

// trackerService is the CRUD surface shared by submittals, RFIs and action items.
type trackerService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// TrackerHandler serves one integer-keyed tracker table.
type TrackerHandler[T any] struct {
	service trackerService[T]
	res     resource
	log     *zap.Logger
}

func NewSubmittalHandler(service *services.SubmittalService, log *zap.Logger) *TrackerHandler[types.Submittal] {
	return &TrackerHandler[types.Submittal]{service: service, res: submittalResource, log: log}
}

func NewRFIHandler(service *services.RFIService, log *zap.Logger) *TrackerHandler[types.RFI] {
	return &TrackerHandler[types.RFI]{service: service, res: rfiResource, log: log}
}

func NewActionItemHandler(service *services.ActionItemService, log *zap.Logger) *TrackerHandler[types.ActionItem] {
	return &TrackerHandler[types.ActionItem]{service: service, res: actionItemResource, log: log}
}

// TrackerRouter registers list/create on "/" and update/delete on "/{id}".
func TrackerRouter[T any](r chi.Router, handler *TrackerHandler[T]) {
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Put("/{id}", handler.Update)
	r.Delete("/{id}", handler.Delete)
}

func (h *TrackerHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	writeList(w, r, h.log, h.res, items, err)
}

func (h *TrackerHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}

	created, err := h.service.Create(r.Context(), item)
	if err != nil {
		writeStoreError(w, r, h.log, h.res, "create", h.res.singular, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *TrackerHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, item)
	if err != nil {
		writeStoreError(w, r, h.log, h.res, "update", h.res.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TrackerHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
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
