package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPredicate_TimeCategories(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	current := &Booking{StartTime: now.Add(-time.Minute), EndTime: now.Add(time.Minute), Status: StatusWaiting}
	future := &Booking{StartTime: now.Add(time.Minute), EndTime: now.Add(time.Hour), Status: StatusApproved}
	past := &Booking{StartTime: now.Add(-time.Hour), EndTime: now.Add(-time.Minute), Status: StatusRejected}

	tests := []struct {
		cat  Category
		want map[*Booking]bool
	}{
		{CategoryAll, map[*Booking]bool{current: true, future: true, past: true}},
		{CategoryCurrent, map[*Booking]bool{current: true, future: false, past: false}},
		{CategoryFuture, map[*Booking]bool{current: false, future: true, past: false}},
		{CategoryPast, map[*Booking]bool{current: false, future: false, past: true}},
		{CategoryWaiting, map[*Booking]bool{current: true, future: false, past: false}},
		{CategoryRejected, map[*Booking]bool{current: false, future: false, past: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			p := SelectPredicate(tt.cat, now)
			for b, want := range tt.want {
				assert.Equal(t, want, p.Match(b), "start=%s end=%s status=%s", b.StartTime, b.EndTime, b.Status)
			}
		})
	}
}

func TestSelectPredicate_BoundariesAreStrict(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	startsNow := &Booking{StartTime: now, EndTime: now.Add(time.Hour)}
	endsNow := &Booking{StartTime: now.Add(-time.Hour), EndTime: now}

	assert.False(t, SelectPredicate(CategoryCurrent, now).Match(startsNow))
	assert.False(t, SelectPredicate(CategoryFuture, now).Match(startsNow))
	assert.False(t, SelectPredicate(CategoryCurrent, now).Match(endsNow))
	assert.False(t, SelectPredicate(CategoryPast, now).Match(endsNow))
}

func TestSelectPredicate_UnknownSelectsNothing(t *testing.T) {
	p := SelectPredicate(Category("SOMEDAY"), time.Now())
	assert.False(t, p.Match(&Booking{Status: StatusWaiting}))

	sql, args, err := p.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "FALSE", sql)
	assert.Empty(t, args)
}

func TestSelectPredicate_SQL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		cat      Category
		wantSQL  string
		wantArgs []interface{}
	}{
		{CategoryAll, "TRUE", nil},
		{CategoryCurrent, "(b.start_time < ? AND b.end_time > ?)", []interface{}{now, now}},
		{CategoryFuture, "b.start_time > ?", []interface{}{now}},
		{CategoryPast, "b.end_time < ?", []interface{}{now}},
		{CategoryWaiting, "b.status = ?", []interface{}{"WAITING"}},
		{CategoryRejected, "b.status = ?", []interface{}{"REJECTED"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			sql, args, err := SelectPredicate(tt.cat, now).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestSelectPredicate_ComposesIntoQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sql, args, err := selectBookings().
		Where(SelectPredicate(CategoryFuture, now)).
		ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE b.start_time > $1")
	assert.Equal(t, []interface{}{now}, args)
}

func TestPredicate_Filter(t *testing.T) {
	bookings := []*Booking{
		{ID: "a", Status: StatusWaiting},
		{ID: "b", Status: StatusApproved},
		{ID: "c", Status: StatusWaiting},
	}

	got := SelectPredicate(CategoryWaiting, time.Now()).Filter(bookings)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"", CategoryAll, false},
		{"ALL", CategoryAll, false},
		{"current", CategoryCurrent, false},
		{" Future ", CategoryFuture, false},
		{"PAST", CategoryPast, false},
		{"waiting", CategoryWaiting, false},
		{"REJECTED", CategoryRejected, false},
		{"UNSUPPORTED_STATUS", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownState)
				assert.Equal(t, "Unknown state: "+tt.in, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryAll, NormalizeCategory("  "))
	assert.Equal(t, CategoryCurrent, NormalizeCategory(" current"))
	assert.Equal(t, Category("Sometime"), NormalizeCategory(" Sometime "))
	assert.False(t, NormalizeCategory("Sometime").Valid())
}
