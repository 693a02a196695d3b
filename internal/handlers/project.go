package handlers

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/internal/storage"
	"github.com/mg3/promag-api/types"
)

const (
	maxMultipartMemory = 8 << 20
	maxImageBytes      = 10 << 20
	formFieldImage     = "image"
	sniffLen           = 512
)

var projectResource = resource{
	singular: "project",
	plural:   "projects",
	label:    "Project",
	conflict: "Project ID already exists.",
}

// ProjectHandler provides HTTP handlers for projects and their images.
type ProjectHandler struct {
	projectService *services.ProjectService
	imageService   *services.ProjectImageService
	log            *zap.Logger
}

// NewProjectHandler constructs a handler. imageService may be nil when no
// object storage is configured; the image routes are then not mounted.
func NewProjectHandler(projectService *services.ProjectService, imageService *services.ProjectImageService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		imageService:   imageService,
		log:            log,
	}
}

// ProjectRouter registers project routes on the given router.
func ProjectRouter(r chi.Router, handler *ProjectHandler) {
	r.Get("/", handler.ListProjects)
	r.Post("/", handler.CreateProject)
	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", handler.GetProject)
		r.Put("/", handler.UpdateProject)
		r.Delete("/", handler.DeleteProject)
		if handler.imageService != nil {
			r.Put("/image", handler.UploadImage)
			r.Get("/image", handler.GetImage)
		}
	})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	writeList(w, r, h.log, projectResource, projects, err)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeStoreError(w, r, h.log, projectResource, "load", projectResource.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// CreateProject ignores any project_id in the body and generates one from
// the project name.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project types.Project
	if !decodeJSON(w, r, &project) {
		return
	}

	created, err := h.projectService.Create(r.Context(), project)
	if err != nil {
		writeStoreError(w, r, h.log, projectResource, "create", projectResource.singular, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var project types.Project
	if !decodeJSON(w, r, &project) {
		return
	}

	updated, err := h.projectService.Update(r.Context(), chi.URLParam(r, "projectID"), project)
	if err != nil {
		writeStoreError(w, r, h.log, projectResource, "update", projectResource.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if err := h.projectService.Delete(r.Context(), projectID); err != nil {
		writeStoreError(w, r, h.log, projectResource, "delete", projectResource.singular, err)
		return
	}

	if h.imageService != nil {
		if err := h.imageService.Discard(r.Context(), projectID); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			h.log.Warn("discard project image failed", zap.String("project_id", projectID), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores the multipart "image" file as the project's cover image.
func (h *ProjectHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}

	file, _, err := r.FormFile(formFieldImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required.")
		return
	}
	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType := http.DetectContentType(data)
	project, err := h.imageService.Upload(r.Context(), chi.URLParam(r, "projectID"), bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		writeStoreError(w, r, h.log, projectResource, "upload image for", projectResource.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	body, err := h.imageService.Open(r.Context(), chi.URLParam(r, "projectID"))
	if errors.Is(err, storage.ErrObjectNotFound) {
		writeError(w, http.StatusNotFound, "Project image not found.")
		return
	}
	if err != nil {
		writeStoreError(w, r, h.log, projectResource, "load image for", projectResource.singular, err)
		return
	}
	defer body.Close()

	buffered := bufio.NewReaderSize(body, sniffLen)
	head, _ := buffered.Peek(sniffLen)
	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, buffered); err != nil {
		h.log.Warn("stream project image failed", zap.Error(err))
	}
}

var (
	errUploadUnreadable = errors.New("Failed to read upload.")
	errUploadTooLarge   = errors.New("Uploaded image is too large.")
	errUploadEmpty      = errors.New("Uploaded image is empty.")
)

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errUploadUnreadable
	}
	if int64(len(data)) > limit {
		return nil, errUploadTooLarge
	}
	if len(data) == 0 {
		return nil, errUploadEmpty
	}
	return data, nil
}
