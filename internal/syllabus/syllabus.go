// Package syllabus holds the grading syllabus: the canonical form names required at each rank.
//
// A Syllabus is an immutable value. It is built once at start-up, from the embedded default or an
// override file, and injected into the services that need it. Accessors return copies.
package syllabus

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/normalize"
)

//go:embed syllabus.yaml
var defaultYAML []byte

// ErrInvalid is returned when syllabus data is structurally wrong.
var ErrInvalid = errors.New("invalid syllabus")

// Level is one rank of the syllabus.
type Level struct {
	Rank  domain.Rank
	Belt  string
	Chip  string
	Forms []string
}

// Requirements is the per-rank requirement table, keyed by rank number.
type Requirements struct {
	Kyu map[int][]string `json:"kyu"`
	Dan map[int][]string `json:"dan"`
}

// Syllabus maps ranks to their ordered form names.
type Syllabus struct {
	levels []Level
	byRank map[domain.Rank]int
}

type levelDoc struct {
	Rank  int      `yaml:"rank"`
	Belt  string   `yaml:"belt"`
	Chip  string   `yaml:"chip"`
	Forms []string `yaml:"forms"`
}

type document struct {
	Kyu []levelDoc `yaml:"kyu"`
	Dan []levelDoc `yaml:"dan"`
}

// Default returns the built-in syllabus.
func Default() *Syllabus {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded syllabus: %v", err))
	}
	return s
}

// Load reads a syllabus from a YAML file. An empty path returns the built-in syllabus.
func Load(path string) (*Syllabus, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read syllabus: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML syllabus data. Unknown keys are rejected.
func Parse(data []byte) (*Syllabus, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	levels := make([]Level, 0, len(doc.Kyu)+len(doc.Dan))
	for _, l := range doc.Kyu {
		levels = append(levels, l.level(domain.RankKyu))
	}
	for _, l := range doc.Dan {
		levels = append(levels, l.level(domain.RankDan))
	}
	return New(levels)
}

func (l levelDoc) level(t domain.RankType) Level {
	return Level{
		Rank:  domain.NewRank(t, l.Rank),
		Belt:  normalize.BeltColor(l.Belt),
		Chip:  strings.TrimSpace(l.Chip),
		Forms: l.Forms,
	}
}

// New builds a Syllabus from levels. Levels are ordered by seniority; form names are trimmed
// and must be non-empty, and each rank may appear only once.
func New(levels []Level) (*Syllabus, error) {
	s := &Syllabus{
		levels: make([]Level, 0, len(levels)),
		byRank: make(map[domain.Rank]int, len(levels)),
	}
	for _, l := range levels {
		if !l.Rank.Type.Valid() || l.Rank.Number < 1 {
			return nil, fmt.Errorf("%w: bad rank %q", ErrInvalid, l.Rank)
		}
		if l.Rank.Type == domain.RankKyu && l.Rank.Number > domain.MaxKyu {
			return nil, fmt.Errorf("%w: bad rank %q", ErrInvalid, l.Rank)
		}
		if _, dup := s.byRank[l.Rank]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalid, l.Rank)
		}

		forms := make([]string, 0, len(l.Forms))
		for _, f := range l.Forms {
			f = normalize.Name(f)
			if f == "" {
				return nil, fmt.Errorf("%w: empty form name at %s", ErrInvalid, l.Rank)
			}
			forms = append(forms, f)
		}
		l.Forms = forms
		s.byRank[l.Rank] = 0
		s.levels = append(s.levels, l)
	}

	slices.SortStableFunc(s.levels, func(a, b Level) int {
		return a.Rank.Compare(b.Rank)
	})
	for i, l := range s.levels {
		s.byRank[l.Rank] = i
	}
	return s, nil
}

// Levels returns every level, most junior first.
func (s *Syllabus) Levels() []Level {
	out := make([]Level, len(s.levels))
	for i, l := range s.levels {
		l.Forms = slices.Clone(l.Forms)
		out[i] = l
	}
	return out
}

// FormsFor returns the ordered form names of rank. ok is false when the rank is not in the syllabus.
func (s *Syllabus) FormsFor(r domain.Rank) (forms []string, ok bool) {
	i, ok := s.byRank[r]
	if !ok {
		return nil, false
	}
	return slices.Clone(s.levels[i].Forms), true
}

// Has reports whether rank r is part of the syllabus.
func (s *Syllabus) Has(r domain.Rank) bool {
	_, ok := s.byRank[r]
	return ok
}

// AllNames returns every form name across all ranks, de-duplicated and sorted alphabetically
// ignoring case.
func (s *Syllabus) AllNames() []string {
	var all []string
	for _, l := range s.levels {
		all = append(all, l.Forms...)
	}
	return normalize.UniqueNames(all)
}

// Requirements returns the kyu and dan requirement tables.
func (s *Syllabus) Requirements() Requirements {
	req := Requirements{
		Kyu: make(map[int][]string),
		Dan: make(map[int][]string),
	}
	for _, l := range s.levels {
		switch l.Rank.Type {
		case domain.RankKyu:
			req.Kyu[l.Rank.Number] = slices.Clone(l.Forms)
		case domain.RankDan:
			req.Dan[l.Rank.Number] = slices.Clone(l.Forms)
		}
	}
	return req
}

// KyuChipMap maps kyu rank numbers to their belt chip CSS class.
func (s *Syllabus) KyuChipMap() map[int]string {
	chips := make(map[int]string)
	for _, l := range s.levels {
		if l.Rank.Type == domain.RankKyu && l.Chip != "" {
			chips[l.Rank.Number] = l.Chip
		}
	}
	return chips
}

// BeltFor returns the belt colour worn at rank r, or "" when unknown.
func (s *Syllabus) BeltFor(r domain.Rank) string {
	if i, ok := s.byRank[r]; ok {
		return s.levels[i].Belt
	}
	return ""
}
