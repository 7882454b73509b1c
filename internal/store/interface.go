// Package store defines the persistence interfaces for the dojolog server and implements the
// Badger-backed session store. Forms and users live in SQLite (see store/sqlite).
package store

import (
	"context"

	"github.com/dojolog/dojolog-server/internal/domain"
)

// FormState selects forms by lifecycle state.
type FormState int

// Lifecycle states accepted by FormStore.ListForms.
const (
	FormsLive FormState = iota
	FormsTrashed
	FormsAll
)

// FormFilter narrows FormStore.ListForms. OwnerID is always required.
type FormFilter struct {
	OwnerID     string
	State       FormState
	LearnedOnly bool
}

// FormStore persists forms. Every query is scoped to one owner except GetForm,
// which callers authorize separately.
type FormStore interface {
	CreateForm(ctx context.Context, f *domain.Form) error
	GetForm(ctx context.Context, id string) (*domain.Form, error)
	UpdateForm(ctx context.Context, f *domain.Form) error
	// SetFormDeletedAt moves a form in or out of the trash. Restoring may fail with
	// ErrDuplicateForm when another live form holds the same slot.
	SetFormDeletedAt(ctx context.Context, f *domain.Form) error
	DeleteForm(ctx context.Context, id string) error
	ListForms(ctx context.Context, filter FormFilter) ([]*domain.Form, error)
	// FindLiveForm returns the owner's live form in the (name, rank) slot, ignoring excludeID.
	// It returns ErrNotFound when the slot is free.
	FindLiveForm(ctx context.Context, ownerID, name string, rank domain.Rank, excludeID string) (*domain.Form, error)
	DeleteFormsByOwner(ctx context.Context, ownerID string) (int64, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByToken(ctx context.Context, tokenID string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteAllUserSessions(ctx context.Context, userID string) error
}

var _ SessionStore = (*Store)(nil)
