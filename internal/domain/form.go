package domain

import (
	"cmp"
	"fmt"
	"strings"
)

// RankType is the grading track of a rank: coloured-belt kyu grades or black-belt dan grades.
type RankType string

const (
	// RankKyu is a student grade. Kyu counts down from 10 (beginner) to 1.
	RankKyu RankType = "Kyu"
	// RankDan is a black-belt grade. Dan counts up from 1.
	RankDan RankType = "Dan"
)

// MaxKyu is the most junior kyu grade.
const MaxKyu = 10

// MaxDan is the most senior dan grade the curriculum charts.
const MaxDan = 8

// ParseRankType matches s against the known rank types ignoring case and surrounding space.
func ParseRankType(s string) (RankType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kyu":
		return RankKyu, true
	case "dan":
		return RankDan, true
	default:
		return "", false
	}
}

// Valid reports whether t is one of the known rank types.
func (t RankType) Valid() bool {
	return t == RankKyu || t == RankDan
}

// Rank identifies a grading level, for example Kyu 7 or Dan 2.
type Rank struct {
	Type   RankType `json:"rank_type"`
	Number int      `json:"rank_number"`
}

// NewRank builds a Rank.
func NewRank(t RankType, number int) Rank {
	return Rank{Type: t, Number: number}
}

// String renders the rank as "Kyu 7".
func (r Rank) String() string {
	return fmt.Sprintf("%s %d", r.Type, r.Number)
}

// ChartLabel renders the rank the way the progress chart labels it ("KYU 7").
func (r Rank) ChartLabel() string {
	return fmt.Sprintf("%s %d", strings.ToUpper(string(r.Type)), r.Number)
}

// Compare orders ranks from most junior to most senior:
// Kyu 10 < Kyu 9 < ... < Kyu 1 < Dan 1 < ... < Dan 8.
// Unknown rank types sort after every dan grade.
func (r Rank) Compare(o Rank) int {
	if c := cmp.Compare(trackOrder(r.Type), trackOrder(o.Type)); c != 0 {
		return c
	}
	if r.Type == RankKyu {
		return cmp.Compare(o.Number, r.Number)
	}
	return cmp.Compare(r.Number, o.Number)
}

func trackOrder(t RankType) int {
	switch t {
	case RankKyu:
		return 0
	case RankDan:
		return 1
	default:
		return 2
	}
}

// Category classifies what kind of form a record is.
type Category string

// Known categories.
const (
	CategoryKata   Category = "Kata"
	CategoryBunkai Category = "Bunkai"
	CategoryKumite Category = "Kumite"
	CategoryWeapon Category = "Weapon"
	CategoryOther  Category = "Other"
)

// DefaultCategory is applied when no category is supplied.
const DefaultCategory = CategoryKata

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{CategoryKata, CategoryBunkai, CategoryKumite, CategoryWeapon, CategoryOther}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryKata, CategoryBunkai, CategoryKumite, CategoryWeapon, CategoryOther:
		return true
	default:
		return false
	}
}

// Form is one learnable form (kata, bunkai, kumite drill or weapon form) recorded by a user at a rank.
// For a given owner, (Name, RankType, RankNumber) is unique among live forms.
type Form struct {
	Lifecycle
	OwnerID      string   `json:"owner_id"`
	Name         string   `json:"name"`
	RankType     RankType `json:"rank_type"`
	RankNumber   int      `json:"rank_number"`
	BeltColor    string   `json:"belt_color,omitempty"`
	Category     Category `json:"category"`
	Description  string   `json:"description"`
	ReferenceURL string   `json:"reference_url,omitempty"`
	Learned      bool     `json:"learned"`
}

// Rank returns the form's rank.
func (f *Form) Rank() Rank {
	return Rank{Type: f.RankType, Number: f.RankNumber}
}

// OwnedBy reports whether ownerID owns the form.
func (f *Form) OwnedBy(ownerID string) bool {
	return f.OwnerID == ownerID
}

// SameSlot reports whether two forms occupy the same (owner, name, rank) slot.
func (f *Form) SameSlot(other *Form) bool {
	return f.OwnerID == other.OwnerID &&
		f.Name == other.Name &&
		f.RankType == other.RankType &&
		f.RankNumber == other.RankNumber
}
