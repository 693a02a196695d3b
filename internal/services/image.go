package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/mg3/promag-api/internal/store"
	"github.com/mg3/promag-api/types"
)

// allowedImageTypes are the content types accepted for project images.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageStore is the object storage the images are written to.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ProjectImageService stores one cover image per project.
type ProjectImageService struct {
	projects ProjectRepository
	images   ImageStore
	basePath string
	notifier ChangeNotifier
	now      func() time.Time
}

// NewProjectImageService serves images under basePath, normally the API prefix.
func NewProjectImageService(projects ProjectRepository, images ImageStore, basePath string, notifier ChangeNotifier) *ProjectImageService {
	return &ProjectImageService{
		projects: projects,
		images:   images,
		basePath: strings.TrimRight(basePath, "/"),
		notifier: notifierOrNop(notifier),
		now:      time.Now,
	}
}

func imageKey(projectID string) string {
	return "projects/" + projectID + "/image"
}

// Upload replaces the project's image and records its URL on the project.
func (s *ProjectImageService) Upload(ctx context.Context, projectID string, r io.Reader, size int64, contentType string) (types.Project, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !allowedImageTypes[contentType] {
		return types.Project{}, invalid("Unsupported image type %q.", contentType)
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return types.Project{}, err
	}

	if err := s.images.Put(ctx, imageKey(projectID), r, size, contentType); err != nil {
		return types.Project{}, fmt.Errorf("upload image: %w", err)
	}

	imageURL := s.basePath + "/projects/" + url.PathEscape(projectID) + "/image"
	project, err := s.projects.SetImageURL(ctx, projectID, &imageURL)
	if err != nil {
		return types.Project{}, err
	}
	emit(ctx, s.notifier, s.now(), "project", types.ChangeUpdated, projectID)
	return project, nil
}

// Open streams the stored image. Projects without one report store.ErrNotFound.
func (s *ProjectImageService) Open(ctx context.Context, projectID string) (io.ReadCloser, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ImageURL == nil {
		return nil, store.ErrNotFound
	}
	return s.images.Get(ctx, imageKey(projectID))
}

// Discard removes the stored image of a deleted project.
func (s *ProjectImageService) Discard(ctx context.Context, projectID string) error {
	return s.images.Delete(ctx, imageKey(projectID))
}
