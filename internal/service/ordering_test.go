package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojolog/dojolog-server/internal/domain"
)

func TestSortForms_RankThenName(t *testing.T) {
	forms := []*domain.Form{
		testForm("f-dan2", "Suparinpei Kata", domain.RankDan, 2),
		testForm("f-kyu1", "sanseiru kata", domain.RankKyu, 1),
		testForm("f-dan1", "Kururunfa Kata", domain.RankDan, 1),
		testForm("f-kyu10b", "Sanchin Kata", domain.RankKyu, 10),
		testForm("f-kyu10a", "basic kata #1", domain.RankKyu, 10),
		testForm("f-kyu3", "Seipai Kata", domain.RankKyu, 3),
	}

	SortForms(forms)

	var got []string
	for _, f := range forms {
		got = append(got, f.ID)
	}
	want := []string{"f-kyu10a", "f-kyu10b", "f-kyu3", "f-kyu1", "f-dan1", "f-dan2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortForms() mismatch (-want +got):\n%s", diff)
	}
}

func TestSortForms_LargeDanNumberSortsLast(t *testing.T) {
	forms := []*domain.Form{
		testForm("f-z", "z", domain.RankDan, math.MaxInt),
		testForm("f-a", "a", domain.RankKyu, 10),
	}

	SortForms(forms)

	assert.Equal(t, "f-a", forms[0].ID)
	assert.Equal(t, "f-z", forms[1].ID)
}

func TestSortForms_TiesBrokenByID(t *testing.T) {
	forms := []*domain.Form{
		testForm("f-b", "Seisan Kata", domain.RankKyu, 2),
		testForm("f-a", "Seisan Kata", domain.RankKyu, 2),
	}

	SortForms(forms)

	assert.Equal(t, "f-a", forms[0].ID)
	assert.Equal(t, "f-b", forms[1].ID)
}

func TestOrderingIndex_BuildOrderAndNeighbors(t *testing.T) {
	svc, _ := setupFormTest(t)
	idx := NewOrderingIndex(svc)
	ctx := context.Background()

	c := mustCreate(t, svc, "user-1", "C Kata", "Dan", 1)
	a := mustCreate(t, svc, "user-1", "A Kata", "Kyu", 10)
	b := mustCreate(t, svc, "user-1", "B Kata", "Kyu", 9)
	mustCreate(t, svc, "user-2", "A2 Kata", "Kyu", 9)

	order, err := idx.BuildOrder(ctx, "user-1")
	require.NoError(t, err)
	want := []string{a.ID, b.ID, c.ID}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("BuildOrder() mismatch (-want +got):\n%s", diff)
	}

	again, err := idx.BuildOrder(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, order, again)

	n, err := idx.Neighbors(ctx, "user-1", b.ID)
	require.NoError(t, err)
	require.NotNil(t, n.PreviousID)
	require.NotNil(t, n.NextID)
	assert.Equal(t, a.ID, *n.PreviousID)
	assert.Equal(t, c.ID, *n.NextID)

	first, err := idx.Neighbors(ctx, "user-1", a.ID)
	require.NoError(t, err)
	assert.Nil(t, first.PreviousID)
	require.NotNil(t, first.NextID)
	assert.Equal(t, b.ID, *first.NextID)

	last, err := idx.Neighbors(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.NotNil(t, last.PreviousID)
	assert.Equal(t, b.ID, *last.PreviousID)
	assert.Nil(t, last.NextID)
}

func TestOrderingIndex_NeighborsOfTrashedForm(t *testing.T) {
	svc, _ := setupFormTest(t)
	idx := NewOrderingIndex(svc)
	ctx := context.Background()

	mustCreate(t, svc, "user-1", "A Kata", "Kyu", 10)
	b := mustCreate(t, svc, "user-1", "B Kata", "Kyu", 9)
	mustCreate(t, svc, "user-1", "C Kata", "Dan", 1)

	_, err := svc.SoftDelete(ctx, "user-1", b.ID)
	require.NoError(t, err)

	n, err := idx.Neighbors(ctx, "user-1", b.ID)
	require.NoError(t, err)
	assert.Nil(t, n.PreviousID)
	assert.Nil(t, n.NextID)

	order, err := idx.BuildOrder(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, order, 2)
}

func TestOrderingIndex_StoreError(t *testing.T) {
	idx := NewOrderingIndex(brokenLister{})

	_, err := idx.Neighbors(context.Background(), "user-1", "form-1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestNeighborsIn_SingleForm(t *testing.T) {
	n := neighborsIn([]string{"only"}, "only")
	assert.Nil(t, n.PreviousID)
	assert.Nil(t, n.NextID)
}
