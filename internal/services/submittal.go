package services

import (
	"context"
	"strings"
	"time"

	"github.com/mg3/promag-api/types"
)

// SubmittalRepository defines persistence operations for submittals.
type SubmittalRepository interface {
	List(ctx context.Context) ([]types.Submittal, error)
	Get(ctx context.Context, id int64) (types.Submittal, error)
	Create(ctx context.Context, submittal types.Submittal) (types.Submittal, error)
	Update(ctx context.Context, submittal types.Submittal) (types.Submittal, error)
	Delete(ctx context.Context, id int64) error
}

// SubmittalService encapsulates submittal use-cases.
type SubmittalService struct {
	repo     SubmittalRepository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewSubmittalService(repo SubmittalRepository, notifier ChangeNotifier) *SubmittalService {
	return &SubmittalService{repo: repo, notifier: notifierOrNop(notifier), now: time.Now}
}

func (s *SubmittalService) List(ctx context.Context) ([]types.Submittal, error) {
	return s.repo.List(ctx)
}

// Create stamps sent_to_date with today when a recipient is given without a date.
func (s *SubmittalService) Create(ctx context.Context, submittal types.Submittal) (types.Submittal, error) {
	if err := cleanSubmittal(&submittal); err != nil {
		return types.Submittal{}, err
	}
	if hasRecipient(submittal.SentToAOR, submittal.SentToEOR) && !submittal.SentToDate.Valid {
		submittal.SentToDate = types.Today(s.now())
	}

	created, err := s.repo.Create(ctx, submittal)
	if err != nil {
		return types.Submittal{}, err
	}
	emit(ctx, s.notifier, s.now(), "submittal", types.ChangeCreated, idKey(created.ID))
	return created, nil
}

// Update rewrites the submittal. The sent_to_date rule runs in the database
// against the stored recipients.
func (s *SubmittalService) Update(ctx context.Context, id int64, submittal types.Submittal) (types.Submittal, error) {
	if err := cleanSubmittal(&submittal); err != nil {
		return types.Submittal{}, err
	}
	submittal.ID = id

	updated, err := s.repo.Update(ctx, submittal)
	if err != nil {
		return types.Submittal{}, err
	}
	emit(ctx, s.notifier, s.now(), "submittal", types.ChangeUpdated, idKey(id))
	return updated, nil
}

func (s *SubmittalService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.notifier, s.now(), "submittal", types.ChangeDeleted, idKey(id))
	return nil
}

func cleanSubmittal(s *types.Submittal) error {
	s.ProjectID = strings.TrimSpace(s.ProjectID)
	if s.ProjectID == "" {
		return invalid("project_id is required.")
	}
	cleanTexts(
		&s.DivisionCSI, &s.SubmittalNumber, &s.Subject, &s.Contractor,
		&s.SentToAOR, &s.SentToEOR, &s.SentToSubcontractor,
		&s.Approvers, &s.ApprovalStatus, &s.Revision,
		&s.OverallStatus, &s.Responsible, &s.WorkflowStage, &s.Notes,
	)
	s.DaysPending = nil
	s.LifecycleStatus = NormalizeLifecycle(string(s.LifecycleStatus), s.StatusText())
	return nil
}

func hasRecipient(recipients ...*string) bool {
	for _, r := range recipients {
		if r != nil {
			return true
		}
	}
	return false
}
