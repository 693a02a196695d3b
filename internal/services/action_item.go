package services

import (
	"context"
	"time"

	"github.com/mg3/promag-api/types"
)

// ActionItemRepository defines persistence operations for action items.
type ActionItemRepository interface {
	List(ctx context.Context) ([]types.ActionItem, error)
	Create(ctx context.Context, item types.ActionItem) (types.ActionItem, error)
	Update(ctx context.Context, item types.ActionItem) (types.ActionItem, error)
	Delete(ctx context.Context, id int64) error
}

// ActionItemService encapsulates action item use-cases.
type ActionItemService struct {
	repo     ActionItemRepository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewActionItemService(repo ActionItemRepository, notifier ChangeNotifier) *ActionItemService {
	return &ActionItemService{repo: repo, notifier: notifierOrNop(notifier), now: time.Now}
}

func (s *ActionItemService) List(ctx context.Context) ([]types.ActionItem, error) {
	return s.repo.List(ctx)
}

func (s *ActionItemService) Create(ctx context.Context, item types.ActionItem) (types.ActionItem, error) {
	cleanActionItem(&item)
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return types.ActionItem{}, err
	}
	emit(ctx, s.notifier, s.now(), "action_item", types.ChangeCreated, idKey(created.ID))
	return created, nil
}

func (s *ActionItemService) Update(ctx context.Context, id int64, item types.ActionItem) (types.ActionItem, error) {
	cleanActionItem(&item)
	item.ID = id
	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return types.ActionItem{}, err
	}
	emit(ctx, s.notifier, s.now(), "action_item", types.ChangeUpdated, idKey(id))
	return updated, nil
}

func (s *ActionItemService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.notifier, s.now(), "action_item", types.ChangeDeleted, idKey(id))
	return nil
}

// days_left is always derived on read; a client-sent value is dropped.
func cleanActionItem(item *types.ActionItem) {
	cleanTexts(
		&item.ProjectID, &item.Task, &item.Description, &item.AssignedTo,
		&item.Status, &item.Priority, &item.Notes,
	)
	item.DaysLeft = nil
}
