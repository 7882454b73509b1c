package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/normalize"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// learnedLister is the part of FormService the availability resolver reads from.
type learnedLister interface {
	LearnedNames(ctx context.Context, ownerID string) ([]string, error)
}

// Candidate is one syllabus name offered when adding a form.
type Candidate struct {
	Name    string `json:"name"`
	Learned bool   `json:"learned"`
}

// AvailabilityResolver builds the candidate list for the new-form picker: syllabus names,
// flagged with whether the owner has already learned them, unlearned names first.
type AvailabilityResolver struct {
	syllabus *syllabus.Syllabus
	learned  learnedLister
	logger   *slog.Logger
}

// NewAvailabilityResolver creates a resolver over an immutable syllabus.
func NewAvailabilityResolver(s *syllabus.Syllabus, learned learnedLister, logger *slog.Logger) *AvailabilityResolver {
	return &AvailabilityResolver{syllabus: s, learned: learned, logger: logger}
}

// CandidatesFor returns the names listed for scope. A nil scope, or a rank the syllabus
// does not list, yields every syllabus name without duplicates.
func (r *AvailabilityResolver) CandidatesFor(scope *domain.Rank) []string {
	if r.syllabus == nil {
		return []string{}
	}
	if scope != nil {
		if names, ok := r.syllabus.FormsFor(*scope); ok {
			return names
		}
	}
	return r.syllabus.AllNames()
}

// Annotate flags each name that appears in learned. Names match ignoring case and
// differences in whitespace.
func Annotate(names []string, learned map[string]struct{}) []Candidate {
	out := make([]Candidate, 0, len(names))
	for _, n := range names {
		_, ok := learned[normalize.Key(n)]
		out = append(out, Candidate{Name: n, Learned: ok})
	}
	return out
}

// Order puts unlearned candidates before learned ones, each group alphabetical ignoring case.
// It returns a new slice.
func Order(candidates []Candidate) []Candidate {
	coll := normalize.NewCollator()

	out := slices.Clone(candidates)
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if a.Learned != b.Learned {
			if a.Learned {
				return 1
			}
			return -1
		}
		return coll.Compare(a.Name, b.Name)
	})
	return out
}

// FilterByQuery keeps candidates whose name contains query, ignoring case.
// A blank query keeps everything.
func FilterByQuery(candidates []Candidate, query string) []Candidate {
	q := normalize.Key(query)
	if q == "" {
		return candidates
	}

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.Contains(normalize.Key(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// Resolve returns the ordered candidates for ownerID, optionally limited to one rank
// and to names containing query. If the owner's learned forms cannot be read the
// result is empty rather than an error.
func (r *AvailabilityResolver) Resolve(ctx context.Context, ownerID string, scope *domain.Rank, query string) []Candidate {
	learned, err := r.learned.LearnedNames(ctx, ownerID)
	if err != nil {
		r.logger.Warn("candidate list unavailable",
			"owner_id", ownerID,
			"error", err,
		)
		return []Candidate{}
	}

	names := r.CandidatesFor(scope)
	candidates := Annotate(names, normalize.KeySet(learned))
	return Order(FilterByQuery(candidates, query))
}
