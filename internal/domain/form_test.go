package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRankType(t *testing.T) {
	tests := []struct {
		input  string
		want   RankType
		wantOK bool
	}{
		{"Kyu", RankKyu, true},
		{"kyu", RankKyu, true},
		{"  KYU ", RankKyu, true},
		{"Dan", RankDan, true},
		{"dAn", RankDan, true},
		{"", "", false},
		{"belt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRankType(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRank_CompareOrder(t *testing.T) {
	ordered := []Rank{
		NewRank(RankKyu, 10),
		NewRank(RankKyu, 9),
		NewRank(RankKyu, 2),
		NewRank(RankKyu, 1),
		NewRank(RankDan, 1),
		NewRank(RankDan, 2),
		NewRank(RankDan, 8),
		NewRank(RankDan, math.MaxInt),
		NewRank(RankType("Shodan-ho"), 1),
	}

	for i := 1; i < len(ordered); i++ {
		assert.Negative(t, ordered[i-1].Compare(ordered[i]),
			"%s should rank below %s", ordered[i-1], ordered[i])
		assert.Positive(t, ordered[i].Compare(ordered[i-1]))
	}
	assert.Zero(t, NewRank(RankKyu, 4).Compare(NewRank(RankKyu, 4)))
}

func TestRank_CompareExtremeNumbers(t *testing.T) {
	assert.Negative(t, NewRank(RankKyu, math.MaxInt).Compare(NewRank(RankKyu, 10)))
	assert.Negative(t, NewRank(RankKyu, 1).Compare(NewRank(RankDan, math.MaxInt)))
	assert.Negative(t, NewRank(RankKyu, math.MaxInt).Compare(NewRank(RankDan, 1)))
}

func TestRank_Labels(t *testing.T) {
	r := NewRank(RankKyu, 7)
	assert.Equal(t, "Kyu 7", r.String())
	assert.Equal(t, "KYU 7", r.ChartLabel())
	assert.Equal(t, "DAN 2", NewRank(RankDan, 2).ChartLabel())
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("Kiso Kumite").Valid())
	assert.False(t, Category("").Valid())
}

func TestForm_SameSlot(t *testing.T) {
	a := &Form{OwnerID: "user-1", Name: "Seisan Kata", RankType: RankKyu, RankNumber: 2}
	b := &Form{OwnerID: "user-1", Name: "Seisan Kata", RankType: RankKyu, RankNumber: 2, Description: "different"}
	c := &Form{OwnerID: "user-2", Name: "Seisan Kata", RankType: RankKyu, RankNumber: 2}

	assert.True(t, a.SameSlot(b))
	assert.False(t, a.SameSlot(c))
}

func TestLifecycle_MarkDeletedKeepsFirstTimestamp(t *testing.T) {
	var l Lifecycle
	l.InitTimestamps()
	assert.True(t, l.IsLive())

	assert.True(t, l.MarkDeleted())
	first := *l.DeletedAt
	assert.True(t, l.IsTrashed())

	time.Sleep(time.Millisecond)
	assert.False(t, l.MarkDeleted())
	assert.Equal(t, first, *l.DeletedAt)

	l.MarkRestored()
	assert.True(t, l.IsLive())
	assert.Nil(t, l.DeletedAt)
}

func TestSession_Expiry(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, s.IsExpired(now))
	assert.True(t, s.IsExpired(now.Add(time.Hour)))
	assert.Equal(t, time.Hour, s.TTL(now))
	assert.Equal(t, time.Duration(0), s.TTL(now.Add(2*time.Hour)))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "kim@dojo.app", NormalizeEmail("  Kim@Dojo.App "))
}
