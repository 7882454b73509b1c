package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dojolog/dojolog-server/internal/normalize"
	"github.com/dojolog/dojolog-server/internal/store"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// SeedOptions configures a demo seed run.
type SeedOptions struct {
	Email       string
	Password    string
	MarkLearned bool
}

// SeedResult reports what a seed run changed.
type SeedResult struct {
	UserID      string
	UserCreated bool
	Removed     int64
	Inserted    int
}

// Seeder resets a demo account to hold the whole syllabus.
type Seeder struct {
	users    store.UserStore
	forms    store.FormStore
	auth     *AuthService
	formSvc  *FormService
	syllabus *syllabus.Syllabus
	logger   *slog.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(
	users store.UserStore,
	forms store.FormStore,
	authService *AuthService,
	formService *FormService,
	s *syllabus.Syllabus,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:    users,
		forms:    forms,
		auth:     authService,
		formSvc:  formService,
		syllabus: s,
		logger:   logger,
	}
}

// Seed makes sure the demo user exists, removes all of its forms and inserts one form per
// syllabus entry. Running it twice leaves the same data. An existing user keeps its password.
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.Email == "" {
		return nil, errors.New("seed: demo email is required")
	}

	result := &SeedResult{}

	user, err := s.users.GetUserByEmail(ctx, opts.Email)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		user, err = s.auth.CreateUser(ctx, opts.Email, opts.Password)
		if err != nil {
			return nil, fmt.Errorf("seed: create demo user: %w", err)
		}
		result.UserCreated = true
	default:
		return nil, fmt.Errorf("seed: lookup demo user: %w", err)
	}
	result.UserID = user.ID

	removed, err := s.forms.DeleteFormsByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("seed: clear forms: %w", err)
	}
	result.Removed = removed

	for _, level := range s.syllabus.Levels() {
		for _, name := range level.Forms {
			in := FormInput{
				Name:       name,
				RankType:   string(level.Rank.Type),
				RankNumber: level.Rank.Number,
				BeltColor:  level.Belt,
				Category:   string(normalize.CategoryForName(name)),
				Learned:    opts.MarkLearned,
			}
			if _, err := s.formSvc.Create(ctx, user.ID, in); err != nil {
				return nil, fmt.Errorf("seed: %s %q: %w", level.Rank, name, err)
			}
			result.Inserted++
		}
	}

	s.logger.Info("demo data seeded",
		"user_id", user.ID,
		"removed", result.Removed,
		"inserted", result.Inserted,
		"learned", opts.MarkLearned,
	)

	return result, nil
}
