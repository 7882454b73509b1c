package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/dojolog/dojolog-server/internal/domain"
	"github.com/dojolog/dojolog-server/internal/normalize"
)

// liveLister is the part of FormService the ordering index reads from.
type liveLister interface {
	FindLive(ctx context.Context, ownerID string) ([]*domain.Form, error)
}

// Neighbors are the forms either side of one form in its owner's ordered live set.
// A nil ID means there is no form on that side.
type Neighbors struct {
	PreviousID *string `json:"previous_id"`
	NextID     *string `json:"next_id"`
}

// OrderingIndex orders an owner's live forms for listing and prev/next navigation.
// The order is rebuilt from the store on every call.
type OrderingIndex struct {
	forms liveLister
}

// NewOrderingIndex creates an ordering index over forms.
func NewOrderingIndex(forms liveLister) *OrderingIndex {
	return &OrderingIndex{forms: forms}
}

// SortForms sorts forms in place: by rank seniority (Kyu 10 first, Dan 8 last), then by name
// alphabetically ignoring case, then by ID.
func SortForms(forms []*domain.Form) {
	coll := normalize.NewCollator()
	slices.SortFunc(forms, func(a, b *domain.Form) int {
		if c := a.Rank().Compare(b.Rank()); c != 0 {
			return c
		}
		if c := coll.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Ordered returns the owner's live forms in navigation order.
func (o *OrderingIndex) Ordered(ctx context.Context, ownerID string) ([]*domain.Form, error) {
	forms, err := o.forms.FindLive(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	SortForms(forms)
	return forms, nil
}

// BuildOrder returns the IDs of the owner's live forms in navigation order.
func (o *OrderingIndex) BuildOrder(ctx context.Context, ownerID string) ([]string, error) {
	forms, err := o.Ordered(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(forms))
	for i, f := range forms {
		ids[i] = f.ID
	}
	return ids, nil
}

// Neighbors returns the forms before and after formID. Both are nil when formID
// is not in the owner's live set.
func (o *OrderingIndex) Neighbors(ctx context.Context, ownerID, formID string) (Neighbors, error) {
	ids, err := o.BuildOrder(ctx, ownerID)
	if err != nil {
		return Neighbors{}, err
	}
	return neighborsIn(ids, formID), nil
}

func neighborsIn(ids []string, formID string) Neighbors {
	i := slices.Index(ids, formID)
	if i < 0 {
		return Neighbors{}
	}

	var n Neighbors
	if i > 0 {
		n.PreviousID = &ids[i-1]
	}
	if i < len(ids)-1 {
		n.NextID = &ids[i+1]
	}
	return n
}
