// Package color derives display colours: belt colours for rank chart bars and avatar colours for users.
package color

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dojolog/dojolog-server/internal/domain"
)

// Fallback colours.
const (
	Unknown     = "#9ca3af"
	BorderDark  = "#000000"
	BorderLight = "#111111"
)

// MaxStripes caps the gold stripes drawn on a dan bar.
const MaxStripes = 8

// Belt colours.
const (
	white  = "#ffffff"
	orange = "#ff7f00"
	green  = "#10b981"
	purple = "#7c3aed"
	brown  = "#8b5a2b"
	black  = "#000000"
)

//nolint:gochecknoglobals // Static lookup table for kyu belt colours.
var kyuSolid = map[int]string{
	10: white,
	9:  orange,
	8:  orange,
	7:  green,
	6:  green,
	5:  purple,
	4:  purple,
	3:  brown,
	2:  brown,
	1:  black,
}

// Kyu grades worn as a half-and-half belt: top colour, then white.
//
//nolint:gochecknoglobals // Static lookup table for split belt colours.
var kyuSplit = map[int][2]string{
	8: {orange, white},
	6: {green, white},
	4: {purple, white},
	2: {brown, white},
}

var (
	kyuFirst = regexp.MustCompile(`^kyu\s*(\d+)$`)
	kyuLast  = regexp.MustCompile(`^(\d+)\s*(?:st|nd|rd|th)?\s*kyu$`)
	danFirst = regexp.MustCompile(`^dan\s*(\d+)$`)
	danLast  = regexp.MustCompile(`^(\d+)\s*(?:st|nd|rd|th)?\s*dan$`)
)

// ParseLabel reads a rank label such as "KYU 7", "7th kyu", "Dan 2" or "2 dan".
func ParseLabel(label string) (domain.Rank, bool) {
	s := strings.Join(strings.Fields(strings.ToLower(label)), " ")

	for _, p := range []struct {
		re *regexp.Regexp
		t  domain.RankType
	}{
		{kyuFirst, domain.RankKyu},
		{kyuLast, domain.RankKyu},
		{danFirst, domain.RankDan},
		{danLast, domain.RankDan},
	} {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return domain.Rank{}, false
		}
		return domain.NewRank(p.t, n), true
	}
	return domain.Rank{}, false
}

// Bar is how one rank's chart bar is painted.
type Bar struct {
	// Fill holds one colour, or two for a split belt (top half first).
	Fill    []string `json:"fill"`
	Border  string   `json:"border"`
	Stripes int      `json:"stripes,omitempty"`
}

// ForRank returns the bar colours for a rank. Ranks off the palette get the Unknown fill.
func ForRank(r domain.Rank) Bar {
	solid := solidFor(r)

	bar := Bar{Fill: []string{solid}, Border: BorderDark}
	if solid == white {
		bar.Border = BorderLight
	}

	switch r.Type {
	case domain.RankKyu:
		if split, ok := kyuSplit[r.Number]; ok {
			bar.Fill = []string{split[0], split[1]}
		}
	case domain.RankDan:
		if r.Number >= 1 {
			bar.Stripes = min(r.Number, MaxStripes)
		}
	}
	return bar
}

// ForLabel parses label and returns its bar colours.
func ForLabel(label string) Bar {
	r, ok := ParseLabel(label)
	if !ok {
		return Bar{Fill: []string{Unknown}, Border: BorderDark}
	}
	return ForRank(r)
}

func solidFor(r domain.Rank) string {
	switch r.Type {
	case domain.RankKyu:
		if c, ok := kyuSolid[r.Number]; ok {
			return c
		}
	case domain.RankDan:
		if r.Number >= 1 && r.Number <= MaxStripes {
			return black
		}
	}
	return Unknown
}
