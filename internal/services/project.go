package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mg3/promag-api/types"
)

const (
	maxSlugLength   = 40
	maxIDSuffix     = 99
	defaultSlugBase = "project"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]types.Project, error)
	Get(ctx context.Context, projectID string) (types.Project, error)
	Exists(ctx context.Context, projectID string) (bool, error)
	Create(ctx context.Context, project types.Project) (types.Project, error)
	Update(ctx context.Context, project types.Project) (types.Project, error)
	SetImageURL(ctx context.Context, projectID string, imageURL *string) (types.Project, error)
	Delete(ctx context.Context, projectID string) error
}

// ProjectService encapsulates project use-cases.
type ProjectService struct {
	repo     ProjectRepository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewProjectService(repo ProjectRepository, notifier ChangeNotifier) *ProjectService {
	return &ProjectService{repo: repo, notifier: notifierOrNop(notifier), now: time.Now}
}

func (s *ProjectService) List(ctx context.Context) ([]types.Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (types.Project, error) {
	return s.repo.Get(ctx, projectID)
}

// Create assigns a fresh project id derived from the name. Any id in the
// request is ignored.
func (s *ProjectService) Create(ctx context.Context, project types.Project) (types.Project, error) {
	if err := cleanProject(&project); err != nil {
		return types.Project{}, err
	}

	id, err := s.GenerateID(ctx, project.ProjectName)
	if err != nil {
		return types.Project{}, err
	}
	project.ProjectID = id
	project.ImageURL = nil

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		return types.Project{}, err
	}
	emit(ctx, s.notifier, s.now(), "project", types.ChangeCreated, created.ProjectID)
	return created, nil
}

// Update rewrites the mutable fields. The id in the path always wins.
func (s *ProjectService) Update(ctx context.Context, projectID string, project types.Project) (types.Project, error) {
	if err := cleanProject(&project); err != nil {
		return types.Project{}, err
	}
	project.ProjectID = projectID

	updated, err := s.repo.Update(ctx, project)
	if err != nil {
		return types.Project{}, err
	}
	emit(ctx, s.notifier, s.now(), "project", types.ChangeUpdated, projectID)
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.repo.Delete(ctx, projectID); err != nil {
		return err
	}
	emit(ctx, s.notifier, s.now(), "project", types.ChangeDeleted, projectID)
	return nil
}

// GenerateID returns the first free id among slug-YYYYMMDD and
// slug-YYYYMMDD-01 through -99.
func (s *ProjectService) GenerateID(ctx context.Context, name string) (string, error) {
	base := fmt.Sprintf("%s-%s", Slugify(name), types.Today(s.now()).Time.Format("20060102"))

	for i := 0; i <= maxIDSuffix; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s-%02d", base, i)
		}
		taken, err := s.repo.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrIDSpaceExhausted, base)
}

// Slugify lower-cases name and collapses every run of characters outside
// [a-z0-9] into a single dash.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return defaultSlugBase
	}
	return slug
}

func cleanProject(p *types.Project) error {
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	if p.ProjectName == "" {
		return invalid("project_name is required.")
	}
	cleanTexts(&p.Address, &p.Developer, &p.AOR, &p.EOR, &p.Status, &p.Priority, &p.Notes)
	return nil
}
