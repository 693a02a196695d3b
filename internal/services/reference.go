package services

import (
	"context"
	"strings"
	"time"

	"github.com/mg3/promag-api/types"
)

// ReferenceRepository defines persistence for one name-only lookup list.
type ReferenceRepository interface {
	Kind() types.ReferenceKind
	List(ctx context.Context) ([]types.Reference, error)
	Create(ctx context.Context, name string) (types.Reference, error)
	Update(ctx context.Context, ref types.Reference) (types.Reference, error)
	Delete(ctx context.Context, id int64) error
}

// ReferenceService manages the AOR, provider and subcontractor lists.
type ReferenceService struct {
	repo     ReferenceRepository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewReferenceService(repo ReferenceRepository, notifier ChangeNotifier) *ReferenceService {
	return &ReferenceService{repo: repo, notifier: notifierOrNop(notifier), now: time.Now}
}

func (s *ReferenceService) Kind() types.ReferenceKind {
	return s.repo.Kind()
}

func (s *ReferenceService) List(ctx context.Context) ([]types.Reference, error) {
	return s.repo.List(ctx)
}

func (s *ReferenceService) Create(ctx context.Context, name string) (types.Reference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Reference{}, invalid("name is required.")
	}
	ref, err := s.repo.Create(ctx, name)
	if err != nil {
		return types.Reference{}, err
	}
	emit(ctx, s.notifier, s.now(), string(s.repo.Kind()), types.ChangeCreated, idKey(ref.ID))
	return ref, nil
}

func (s *ReferenceService) Update(ctx context.Context, id int64, name string) (types.Reference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Reference{}, invalid("name is required.")
	}
	ref, err := s.repo.Update(ctx, types.Reference{ID: id, Name: name})
	if err != nil {
		return types.Reference{}, err
	}
	emit(ctx, s.notifier, s.now(), string(s.repo.Kind()), types.ChangeUpdated, idKey(id))
	return ref, nil
}

func (s *ReferenceService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.notifier, s.now(), string(s.repo.Kind()), types.ChangeDeleted, idKey(id))
	return nil
}

// EORRepository defines persistence operations for engineers of record.
type EORRepository interface {
	List(ctx context.Context, eorType types.EORType) ([]types.EOR, error)
	Create(ctx context.Context, eor types.EOR) (types.EOR, error)
	Update(ctx context.Context, eor types.EOR) (types.EOR, error)
	Delete(ctx context.Context, id int64) error
}

// EORService manages engineers of record, whose names are unique per type.
type EORService struct {
	repo     EORRepository
	notifier ChangeNotifier
	now      func() time.Time
}

func NewEORService(repo EORRepository, notifier ChangeNotifier) *EORService {
	return &EORService{repo: repo, notifier: notifierOrNop(notifier), now: time.Now}
}

// List filters by eorType when it is non-blank.
func (s *EORService) List(ctx context.Context, eorType string) ([]types.EOR, error) {
	return s.repo.List(ctx, types.EORType(strings.TrimSpace(eorType)))
}

func (s *EORService) Create(ctx context.Context, eor types.EOR) (types.EOR, error) {
	if err := cleanEOR(&eor); err != nil {
		return types.EOR{}, err
	}
	created, err := s.repo.Create(ctx, eor)
	if err != nil {
		return types.EOR{}, err
	}
	emit(ctx, s.notifier, s.now(), "eor", types.ChangeCreated, idKey(created.ID))
	return created, nil
}

func (s *EORService) Update(ctx context.Context, id int64, eor types.EOR) (types.EOR, error) {
	if err := cleanEOR(&eor); err != nil {
		return types.EOR{}, err
	}
	eor.ID = id
	updated, err := s.repo.Update(ctx, eor)
	if err != nil {
		return types.EOR{}, err
	}
	emit(ctx, s.notifier, s.now(), "eor", types.ChangeUpdated, idKey(id))
	return updated, nil
}

func (s *EORService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.notifier, s.now(), "eor", types.ChangeDeleted, idKey(id))
	return nil
}

func cleanEOR(eor *types.EOR) error {
	eor.Type = types.EORType(strings.TrimSpace(string(eor.Type)))
	eor.Name = strings.TrimSpace(eor.Name)
	if !eor.Type.Valid() {
		return invalid("Valid type is required.")
	}
	if eor.Name == "" {
		return invalid("name is required.")
	}
	return nil
}
