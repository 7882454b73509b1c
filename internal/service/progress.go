package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dojolog/dojolog-server/internal/color"
	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/store"
)

// ChartBar is one rank on the progress chart.
type ChartBar struct {
	Label string      `json:"label"`
	Rank  domain.Rank `json:"rank"`
	Count int         `json:"count"`
	Color color.Bar   `json:"color"`
}

// Chart counts an owner's learned forms per rank, junior ranks first.
type Chart struct {
	Bars  []ChartBar `json:"bars"`
	Total int        `json:"total"`
}

// ChartRanks returns the charted ranks in order: Kyu 10 down to Kyu 1, then Dan 1 up to Dan 8.
func ChartRanks() []domain.Rank {
	ranks := make([]domain.Rank, 0, domain.MaxKyu+domain.MaxDan)
	for n := domain.MaxKyu; n >= 1; n-- {
		ranks = append(ranks, domain.NewRank(domain.RankKyu, n))
	}
	for n := 1; n <= domain.MaxDan; n++ {
		ranks = append(ranks, domain.NewRank(domain.RankDan, n))
	}
	return ranks
}

// BuildChart counts live learned forms per charted rank. Forms at ranks off the chart
// are not counted.
func BuildChart(forms []*domain.Form) Chart {
	ranks := ChartRanks()

	index := make(map[domain.Rank]int, len(ranks))
	chart := Chart{Bars: make([]ChartBar, len(ranks))}
	for i, r := range ranks {
		index[r] = i
		chart.Bars[i] = ChartBar{
			Label: r.ChartLabel(),
			Rank:  r,
			Color: color.ForRank(r),
		}
	}

	for _, f := range forms {
		if !f.Learned || f.IsTrashed() {
			continue
		}
		if i, ok := index[f.Rank()]; ok {
			chart.Bars[i].Count++
			chart.Total++
		}
	}
	return chart
}

// ProgressService reports an owner's progress through the ranks.
type ProgressService struct {
	forms  store.FormStore
	logger *slog.Logger
}

// NewProgressService creates a new progress service.
func NewProgressService(forms store.FormStore, logger *slog.Logger) *ProgressService {
	return &ProgressService{forms: forms, logger: logger}
}

// Chart returns the owner's learned-forms chart.
func (s *ProgressService) Chart(ctx context.Context, ownerID string) (*Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	forms, err := s.forms.ListForms(ctx, store.FormFilter{
		OwnerID:     ownerID,
		State:       store.FormsLive,
		LearnedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list learned forms: %w", err)
	}

	chart := BuildChart(forms)
	s.logger.Debug("progress chart built", "owner_id", ownerID, "learned", chart.Total)
	return &chart, nil
}
