package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// NewFormPage is everything the add-form screen needs in one payload.
type NewFormPage struct {
	AllNames     []string              `json:"all_names"`
	LearnedNames []string              `json:"learned_names"` // lower-cased
	Chart        Chart                 `json:"chart"`
	Requirements syllabus.Requirements `json:"requirements"`
	KyuChips     map[int]string        `json:"kyu_chips"`
	Categories   []domain.Category     `json:"categories"`
	Error        string                `json:"error,omitempty"`
}

// PageService assembles screen payloads from forms and the syllabus.
type PageService struct {
	syllabus *syllabus.Syllabus
	forms    liveLister
	logger   *slog.Logger
}

// NewPageService creates a new page service.
func NewPageService(s *syllabus.Syllabus, forms liveLister, logger *slog.Logger) *PageService {
	return &PageService{syllabus: s, forms: forms, logger: logger}
}

// NewFormPage builds the add-form payload for ownerID. When the owner's forms cannot be read
// the page still renders: collections come back empty and Error says what went wrong.
func (s *PageService) NewFormPage(ctx context.Context, ownerID string) *NewFormPage {
	page := &NewFormPage{
		AllNames:     s.syllabus.AllNames(),
		LearnedNames: []string{},
		Chart:        BuildChart(nil),
		Requirements: s.syllabus.Requirements(),
		KyuChips:     s.syllabus.KyuChipMap(),
		Categories:   domain.Categories(),
	}

	forms, err := s.forms.FindLive(ctx, ownerID)
	if err != nil {
		s.logger.Warn("new form page degraded",
			"owner_id", ownerID,
			"error", err,
		)
		page.Error = "Could not load your forms. Suggestions and progress are unavailable."
		return page
	}

	seen := make(map[string]struct{})
	for _, f := range forms {
		if !f.Learned {
			continue
		}
		name := strings.ToLower(f.Name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		page.LearnedNames = append(page.LearnedNames, name)
	}
	page.Chart = BuildChart(forms)

	return page
}
