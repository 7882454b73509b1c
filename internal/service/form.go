package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dojolog/dojolog-server/internal/domain"
	domainerrors "github.com/dojolog/dojolog-server/internal/errors"
	"github.com/dojolog/dojolog-server/internal/id"
	"github.com/dojolog/dojolog-server/internal/normalize"
	"github.com/dojolog/dojolog-server/internal/store"
	"github.com/dojolog/dojolog-server/internal/validation"
)

// FormInput carries the editable fields of a form, as submitted by a user.
type FormInput struct {
	Name         string `json:"name" validate:"required,min=2,max=200"`
	RankType     string `json:"rank_type" validate:"required,oneof=Kyu Dan"`
	RankNumber   int    `json:"rank_number" validate:"gte=1"`
	BeltColor    string `json:"belt_color,omitempty" validate:"max=40"`
	Category     string `json:"category,omitempty" validate:"max=40"`
	Description  string `json:"description,omitempty" validate:"max=5000"`
	ReferenceURL string `json:"reference_url,omitempty" validate:"omitempty,httpurl,max=2048"`
	Learned      bool   `json:"learned"`
}

// normalized returns a copy of in with names and the reference URL trimmed and the rank type
// in canonical case. A blank reference URL becomes empty.
// Category and belt colour are normalized after validation.
func (in FormInput) normalized() FormInput {
	in.Name = normalize.Name(in.Name)
	in.ReferenceURL = strings.TrimSpace(in.ReferenceURL)
	if t, ok := domain.ParseRankType(in.RankType); ok {
		in.RankType = string(t)
	}
	return in
}

// apply copies validated input onto f.
func (in FormInput) apply(f *domain.Form) {
	f.Name = in.Name
	f.RankType = domain.RankType(in.RankType)
	f.RankNumber = in.RankNumber
	f.BeltColor = normalize.BeltColor(in.BeltColor)
	f.Category = normalize.Category(in.Category)
	f.Description = in.Description
	f.ReferenceURL = in.ReferenceURL
	f.Learned = in.Learned
}

// FormService owns the lifecycle of forms: create, update, trash, restore and purge.
// Every mutating call goes through the ownership guard.
type FormService struct {
	forms     store.FormStore
	guard     guard
	validator *validation.Validator
	logger    *slog.Logger
}

// NewFormService creates a new form service.
func NewFormService(forms store.FormStore, logger *slog.Logger) *FormService {
	return &FormService{
		forms:     forms,
		guard:     guard{forms: forms},
		validator: validation.New(),
		logger:    logger,
	}
}

// Create validates and stores a new live form for ownerID.
func (s *FormService) Create(ctx context.Context, ownerID string, in FormInput) (*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, domainerrors.Unauthorized("an owner is required")
	}

	in = in.normalized()
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	formID, err := id.Generate(id.PrefixForm)
	if err != nil {
		return nil, fmt.Errorf("generate form ID: %w", err)
	}

	f := &domain.Form{OwnerID: ownerID}
	f.ID = formID
	f.InitTimestamps()
	in.apply(f)

	if err := s.checkSlotFree(ctx, f); err != nil {
		return nil, err
	}

	if err := s.forms.CreateForm(ctx, f); err != nil {
		if errors.Is(err, store.ErrDuplicateForm) {
			return nil, duplicateError(f)
		}
		return nil, fmt.Errorf("create form: %w", err)
	}

	s.logger.Info("form created",
		"form_id", f.ID,
		"owner_id", ownerID,
		"rank", f.Rank().String(),
	)

	return f, nil
}

// Update replaces the editable fields of a live form owned by ownerID.
func (s *FormService) Update(ctx context.Context, ownerID, formID string, in FormInput) (*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.guard.authorize(ctx, ownerID, formID, true)
	if err != nil {
		return nil, err
	}

	in = in.normalized()
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	in.apply(f)
	f.Touch()

	if err := s.checkSlotFree(ctx, f); err != nil {
		return nil, err
	}

	if err := s.forms.UpdateForm(ctx, f); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateForm):
			return nil, duplicateError(f)
		case errors.Is(err, store.ErrNotFound):
			// Trashed or purged since the guard read it.
			return nil, domainerrors.NotFound("form not found")
		}
		return nil, fmt.Errorf("update form: %w", err)
	}

	s.logger.Info("form updated", "form_id", f.ID, "owner_id", ownerID)

	return f, nil
}

// SoftDelete moves a form to the trash. Trashing a form that is already in the trash
// succeeds and keeps its original deletion time.
func (s *FormService) SoftDelete(ctx context.Context, ownerID, formID string) (*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.guard.authorize(ctx, ownerID, formID, false)
	if err != nil {
		return nil, err
	}

	if !f.MarkDeleted() {
		return f, nil
	}

	if err := s.forms.SetFormDeletedAt(ctx, f); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("form not found")
		}
		return nil, fmt.Errorf("trash form: %w", err)
	}

	s.logger.Info("form trashed", "form_id", f.ID, "owner_id", ownerID)

	return f, nil
}

// Restore takes a form out of the trash. It fails with DUPLICATE_RECORD when another
// live form of the owner holds the same name and rank. Restoring a live form is a no-op.
func (s *FormService) Restore(ctx context.Context, ownerID, formID string) (*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.guard.authorize(ctx, ownerID, formID, false)
	if err != nil {
		return nil, err
	}

	if f.IsLive() {
		return f, nil
	}

	if err := s.checkSlotFree(ctx, f); err != nil {
		return nil, err
	}

	f.MarkRestored()

	if err := s.forms.SetFormDeletedAt(ctx, f); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateForm):
			return nil, duplicateError(f)
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFound("form not found")
		}
		return nil, fmt.Errorf("restore form: %w", err)
	}

	s.logger.Info("form restored", "form_id", f.ID, "owner_id", ownerID)

	return f, nil
}

// HardDelete permanently removes a form, live or trashed.
func (s *FormService) HardDelete(ctx context.Context, ownerID, formID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := s.guard.authorize(ctx, ownerID, formID, false)
	if err != nil {
		return err
	}

	if err := s.forms.DeleteForm(ctx, f.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("form not found")
		}
		return fmt.Errorf("delete form: %w", err)
	}

	s.logger.Info("form purged", "form_id", f.ID, "owner_id", ownerID)

	return nil
}

// Get returns a live form by ID regardless of owner. Trashed forms are not found.
func (s *FormService) Get(ctx context.Context, formID string) (*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("form not found")
		}
		return nil, fmt.Errorf("get form: %w", err)
	}
	if f.IsTrashed() {
		return nil, domainerrors.NotFound("form not found")
	}
	return f, nil
}

// GetForEdit returns a live form for its owner to edit.
func (s *FormService) GetForEdit(ctx context.Context, ownerID, formID string) (*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.guard.authorize(ctx, ownerID, formID, true)
}

// FindLive returns the owner's live forms in creation order.
func (s *FormService) FindLive(ctx context.Context, ownerID string) ([]*domain.Form, error) {
	return s.list(ctx, store.FormFilter{OwnerID: ownerID, State: store.FormsLive})
}

// FindTrashed returns the owner's trashed forms, most recently trashed first.
func (s *FormService) FindTrashed(ctx context.Context, ownerID string) ([]*domain.Form, error) {
	return s.list(ctx, store.FormFilter{OwnerID: ownerID, State: store.FormsTrashed})
}

// LearnedNames returns the names of the owner's live forms marked learned.
func (s *FormService) LearnedNames(ctx context.Context, ownerID string) ([]string, error) {
	forms, err := s.list(ctx, store.FormFilter{OwnerID: ownerID, State: store.FormsLive, LearnedOnly: true})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(forms))
	for _, f := range forms {
		names = append(names, f.Name)
	}
	return names, nil
}

func (s *FormService) list(ctx context.Context, filter store.FormFilter) ([]*domain.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.OwnerID == "" {
		return []*domain.Form{}, nil
	}

	forms, err := s.forms.ListForms(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	if forms == nil {
		forms = []*domain.Form{}
	}
	return forms, nil
}

// checkSlotFree fails with DUPLICATE_RECORD when another live form of f's owner
// has f's name and rank. The database index is still the final word.
func (s *FormService) checkSlotFree(ctx context.Context, f *domain.Form) error {
	_, err := s.forms.FindLiveForm(ctx, f.OwnerID, f.Name, f.Rank(), f.ID)
	switch {
	case err == nil:
		return duplicateError(f)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check duplicate form: %w", err)
	}
}

func duplicateError(f *domain.Form) error {
	return domainerrors.DuplicateRecord(
		fmt.Sprintf("you already have %q at %s", f.Name, f.Rank()),
	).WithDetails(map[string]string{
		"name":        f.Name,
		"rank_type":   string(f.RankType),
		"rank_number": fmt.Sprint(f.RankNumber),
	})
}
