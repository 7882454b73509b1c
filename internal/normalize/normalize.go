// Package normalize canonicalizes user-supplied form fields: categories, belt colours and names.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/dojolog/dojolog-server/internal/domain"
)

// categoryTable maps folded category input to its canonical value.
// Anything missing from the table becomes domain.CategoryOther.
//
//nolint:gochecknoglobals // Static lookup table for category normalization
var categoryTable = map[string]domain.Category{
	"kata":        domain.CategoryKata,
	"bunkai":      domain.CategoryBunkai,
	"kumite":      domain.CategoryKumite,
	"kiso kumite": domain.CategoryKumite,
	"weapon":      domain.CategoryWeapon,
	"other":       domain.CategoryOther,
}

// Category maps raw category input onto the closed category set.
// Empty input yields domain.DefaultCategory; unknown input yields domain.CategoryOther.
func Category(raw string) domain.Category {
	key := Key(raw)
	if key == "" {
		return domain.DefaultCategory
	}
	if c, ok := categoryTable[key]; ok {
		return c
	}
	return domain.CategoryOther
}

//nolint:gochecknoglobals // Compiled once, read-only
var (
	kisoKumitePattern = regexp.MustCompile(`kiso\s*kumite`)
	bunkaiPattern     = regexp.MustCompile(`bunkai`)
	weaponPattern     = regexp.MustCompile(`\b(bo|sai|tonfa|nunchaku|nunti[- ]?bo|tsuken|kama|knife)\b`)
	kataPattern       = regexp.MustCompile(`kata`)
)

// CategoryForName infers a category from a form's name.
// "Kiso Kumite #3" is Kumite, "Saifa Bunkai" is Bunkai, "Sai Kata #1" is Weapon.
func CategoryForName(name string) domain.Category {
	s := strings.ToLower(strings.TrimSpace(name))
	switch {
	case kisoKumitePattern.MatchString(s):
		return domain.CategoryKumite
	case bunkaiPattern.MatchString(s):
		return domain.CategoryBunkai
	case weaponPattern.MatchString(s):
		return domain.CategoryWeapon
	case kataPattern.MatchString(s):
		return domain.CategoryKata
	default:
		return domain.CategoryOther
	}
}

// BeltColor trims and lower-cases a belt colour. Blank input yields "".
func BeltColor(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Name trims surrounding whitespace from a form name.
func Name(raw string) string {
	return strings.TrimSpace(raw)
}

// Key produces the comparison key for a name: NFC normalized, case folded,
// with runs of whitespace collapsed to a single space.
// Two names with equal keys are the same name for learned-state matching.
func Key(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// KeySet builds a set of comparison keys from names.
func KeySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if k := Key(n); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
