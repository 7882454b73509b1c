package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dojolog/dojolog-server/internal/domain"
	domainerrors "github.com/dojolog/dojolog-server/internal/errors"
	"github.com/dojolog/dojolog-server/internal/store"
)

// guard loads a form on behalf of an owner.
type guard struct {
	forms store.FormStore
}

// authorize returns the form when ownerID owns it. It fails with NOT_FOUND when the form does
// not exist (or is trashed and requireLive is set) and with FORBIDDEN when someone else owns it.
// Existence is checked before ownership.
func (g guard) authorize(ctx context.Context, ownerID, formID string, requireLive bool) (*domain.Form, error) {
	if ownerID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	f, err := g.forms.GetForm(ctx, formID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("form not found")
		}
		return nil, fmt.Errorf("get form: %w", err)
	}

	if requireLive && f.IsTrashed() {
		return nil, domainerrors.NotFound("form not found")
	}
	if !f.OwnedBy(ownerID) {
		return nil, domainerrors.Forbidden("you do not own this form")
	}
	return f, nil
}
