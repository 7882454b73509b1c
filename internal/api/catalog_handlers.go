package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dojolog/dojolog-server/internal/color"
	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/service"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCandidates",
		Method:      http.MethodGet,
		Path:        "/api/v1/candidates",
		Summary:     "Form name suggestions",
		Description: "Returns syllabus form names for a rank (or every rank when the rank is unknown), unlearned names first. An empty list is returned if the caller's forms cannot be read.",
		Tags:        []string{"Syllabus"},
	}, s.handleListCandidates)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSyllabus",
		Method:      http.MethodGet,
		Path:        "/api/v1/syllabus",
		Summary:     "Syllabus",
		Description: "Returns the per-rank requirement tables, the kyu chip classes and the form categories",
		Tags:        []string{"Syllabus"},
	}, s.handleGetSyllabus)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/progress",
		Summary:     "Progress chart",
		Description: "Counts the caller's learned forms per rank, Kyu 10 through Dan 8",
		Tags:        []string{"Progress"},
	}, s.handleGetProgress)
}

// === DTOs ===

// CandidatesInput selects the rank and filter for suggestions.
type CandidatesInput struct {
	RankType   string `query:"rank_type" doc:"Kyu or Dan. Omit for every rank."`
	RankNumber int    `query:"rank_number" doc:"Rank number. Omit for every rank."`
	Query      string `query:"q" maxLength:"200" doc:"Case-insensitive substring filter"`
}

// scope returns the rank the input names, or nil when it does not name one.
func (in *CandidatesInput) scope() *domain.Rank {
	t, ok := domain.ParseRankType(in.RankType)
	if !ok || in.RankNumber < 1 {
		return nil
	}
	r := domain.NewRank(t, in.RankNumber)
	return &r
}

// CandidatesResponse lists name suggestions.
type CandidatesResponse struct {
	Candidates []service.Candidate `json:"candidates"`
}

// CandidatesOutput wraps the suggestions for Huma.
type CandidatesOutput struct {
	Body CandidatesResponse
}

// LevelResponse is one rank of the syllabus.
type LevelResponse struct {
	Rank  string    `json:"rank"`
	Belt  string    `json:"belt,omitempty"`
	Chip  string    `json:"chip,omitempty"`
	Color color.Bar `json:"color"`
	Forms []string  `json:"forms"`
}

// SyllabusResponse is the requirement data the forms screens render.
type SyllabusResponse struct {
	Levels       []LevelResponse       `json:"levels"`
	Requirements syllabus.Requirements `json:"requirements"`
	KyuChips     map[int]string        `json:"kyu_chips"`
	Categories   []domain.Category     `json:"categories"`
}

// SyllabusOutput wraps the syllabus for Huma.
type SyllabusOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         SyllabusResponse
}

// ProgressOutput wraps the chart for Huma.
type ProgressOutput struct {
	Body *service.Chart
}

// === Handlers ===

func (s *Server) handleListCandidates(ctx context.Context, input *CandidatesInput) (*CandidatesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	candidates := s.services.Availability.Resolve(ctx, userID, input.scope(), input.Query)
	return &CandidatesOutput{Body: CandidatesResponse{Candidates: candidates}}, nil
}

func (s *Server) handleGetSyllabus(_ context.Context, _ *struct{}) (*SyllabusOutput, error) {
	syl := s.services.Syllabus
	levels := syl.Levels()

	resp := SyllabusResponse{
		Levels:       make([]LevelResponse, 0, len(levels)),
		Requirements: syl.Requirements(),
		KyuChips:     syl.KyuChipMap(),
		Categories:   domain.Categories(),
	}
	for _, l := range levels {
		resp.Levels = append(resp.Levels, LevelResponse{
			Rank:  l.Rank.String(),
			Belt:  l.Belt,
			Chip:  l.Chip,
			Color: color.ForRank(l.Rank),
			Forms: l.Forms,
		})
	}

	return &SyllabusOutput{CacheControl: CacheOneDay, Body: resp}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, _ *struct{}) (*ProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	chart, err := s.services.Progress.Chart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProgressOutput{Body: chart}, nil
}
