package services

import (
	"context"
	"strings"
	"time"

	"github.com/mg3/promag-api/types"
)

// RFIRepository defines persistence operations for RFIs.
type RFIRepository interface {
	List(ctx context.Context) ([]types.RFI, error)
	Get(ctx context.Context, id int64) (types.RFI, error)
	Create(ctx context.Context, rfi types.RFI) (types.RFI, error)
	Update(ctx context.Context, rfi types.RFI) (types.RFI, error)
	Delete(ctx context.Context, id int64) error
}

// RFIService encapsulates RFI use-cases.
type RFIService struct {
	repo     RFIRepository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewRFIService(repo RFIRepository, notifier ChangeNotifier) *RFIService {
	return &RFIService{repo: repo, notifier: notifierOrNop(notifier), now: time.Now}
}

func (s *RFIService) List(ctx context.Context) ([]types.RFI, error) {
	return s.repo.List(ctx)
}

// Create stamps sent_to_date for a new recipient and date_answered for an
// RFI created already approved.
func (s *RFIService) Create(ctx context.Context, rfi types.RFI) (types.RFI, error) {
	if err := cleanRFI(&rfi); err != nil {
		return types.RFI{}, err
	}
	today := types.Today(s.now())
	if hasRecipient(rfi.SentToAOR, rfi.SentToEOR) && !rfi.SentToDate.Valid {
		rfi.SentToDate = today
	}
	if rfi.StatusText() == types.StatusApproved && !rfi.DateAnswered.Valid {
		rfi.DateAnswered = today
	}

	created, err := s.repo.Create(ctx, rfi)
	if err != nil {
		return types.RFI{}, err
	}
	emit(ctx, s.notifier, s.now(), "rfi", types.ChangeCreated, idKey(created.ID))
	return created, nil
}

func (s *RFIService) Update(ctx context.Context, id int64, rfi types.RFI) (types.RFI, error) {
	if err := cleanRFI(&rfi); err != nil {
		return types.RFI{}, err
	}
	rfi.ID = id

	updated, err := s.repo.Update(ctx, rfi)
	if err != nil {
		return types.RFI{}, err
	}
	emit(ctx, s.notifier, s.now(), "rfi", types.ChangeUpdated, idKey(id))
	return updated, nil
}

func (s *RFIService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.notifier, s.now(), "rfi", types.ChangeDeleted, idKey(id))
	return nil
}

func cleanRFI(r *types.RFI) error {
	r.ProjectID = strings.TrimSpace(r.ProjectID)
	if r.ProjectID == "" {
		return invalid("project_id is required.")
	}
	cleanTexts(
		&r.RFINumber, &r.Subject, &r.Description, &r.FromContractor,
		&r.SentToAOR, &r.SentToEOR, &r.SentToSubcontractor,
		&r.Status, &r.Responsible, &r.Notes,
	)
	r.DaysOpen = nil
	r.LifecycleStatus = NormalizeLifecycle(string(r.LifecycleStatus), r.StatusText())
	return nil
}
