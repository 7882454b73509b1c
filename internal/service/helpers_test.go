package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/store"
	"github.com/dojolog/dojolog-server/internal/store/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// setupFormTest creates a form service over a fresh SQLite database.
func setupFormTest(t *testing.T) (*FormService, *sqlite.Store) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewFormService(db, testLogger()), db
}

// mustCreate creates a form and fails the test on error.
func mustCreate(t *testing.T, svc *FormService, ownerID, name, rankType string, rankNumber int) *domain.Form {
	t.Helper()

	f, err := svc.Create(context.Background(), ownerID, FormInput{
		Name:       name,
		RankType:   rankType,
		RankNumber: rankNumber,
	})
	require.NoError(t, err)
	return f
}

// noPrecheckStore hides live forms from the duplicate pre-check so only the
// database index can reject a write.
type noPrecheckStore struct {
	store.FormStore
}

func (noPrecheckStore) FindLiveForm(context.Context, string, string, domain.Rank, string) (*domain.Form, error) {
	return nil, store.ErrNotFound
}

var errStoreDown = errors.New("store unavailable")

// brokenLister fails every read.
type brokenLister struct{}

func (brokenLister) FindLive(context.Context, string) ([]*domain.Form, error) {
	return nil, errStoreDown
}

func (brokenLister) LearnedNames(context.Context, string) ([]string, error) {
	return nil, errStoreDown
}

// staticLister serves a fixed set of forms.
type staticLister struct {
	forms   []*domain.Form
	learned []string
}

func (l staticLister) FindLive(context.Context, string) ([]*domain.Form, error) {
	out := make([]*domain.Form, len(l.forms))
	copy(out, l.forms)
	return out, nil
}

func (l staticLister) LearnedNames(context.Context, string) ([]string, error) {
	return l.learned, nil
}

func testForm(id, name string, rankType domain.RankType, rankNumber int) *domain.Form {
	f := &domain.Form{
		OwnerID:    "user-1",
		Name:       name,
		RankType:   rankType,
		RankNumber: rankNumber,
		Category:   domain.CategoryKata,
	}
	f.ID = id
	f.InitTimestamps()
	return f
}
