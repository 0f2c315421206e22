package booking

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

func TestValidateCreate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v := NewValidator(&clock.Fixed{T: now})

	owner := &user.User{ID: "owner"}
	booker := &user.User{ID: "booker"}
	available := &item.Item{ID: "item", OwnerID: owner.ID, Available: true}
	unavailable := &item.Item{ID: "item", OwnerID: owner.ID, Available: false}

	valid := CreateRequest{ItemID: "item", BookerID: booker.ID, StartTime: now.Add(time.Minute), EndTime: now.Add(time.Hour)}

	tests := []struct {
		name   string
		req    CreateRequest
		item   *item.Item
		booker *user.User
		want   error
	}{
		{"ok", valid, available, booker, nil},
		{"missing booker wins over everything", valid, nil, nil, ErrBookerNotFound},
		{"missing item", valid, nil, booker, ErrItemNotFound},
		{"unavailable before own item", withBooker(valid, owner.ID), unavailable, owner, ErrItemUnavailable},
		{"own item before time range", withWindow(withBooker(valid, owner.ID), now.Add(-time.Hour), now), available, owner, ErrOwnItem},
		{"start in the past", withWindow(valid, now.Add(-time.Minute), now.Add(time.Hour)), available, booker, ErrInvalidTimeRange},
		{"start equals now", withWindow(valid, now, now.Add(time.Hour)), available, booker, ErrInvalidTimeRange},
		{"end before start", withWindow(valid, now.Add(2*time.Hour), now.Add(time.Hour)), available, booker, ErrInvalidTimeRange},
		{"end equals start", withWindow(valid, now.Add(time.Hour), now.Add(time.Hour)), available, booker, ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreate(tt.req, tt.item, tt.booker)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func withBooker(r CreateRequest, id string) CreateRequest {
	r.BookerID = id
	return r
}

func withWindow(r CreateRequest, start, end time.Time) CreateRequest {
	r.StartTime, r.EndTime = start, end
	return r
}

func TestDecide_Transitions(t *testing.T) {
	waiting := &Booking{ID: "b", Status: StatusWaiting}

	approved, err := Decide(waiting, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	rejected, err := Decide(waiting, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	assert.Equal(t, StatusWaiting, waiting.Status, "input must not be mutated")
}

func TestDecide_TerminalStatesAreFinal(t *testing.T) {
	for _, st := range []Status{StatusApproved, StatusRejected} {
		for _, approve := range []bool{true, false} {
			_, err := Decide(&Booking{Status: st}, approve)
			assert.ErrorIs(t, err, ErrAlreadyDecided, "status=%s approve=%v", st, approve)
		}
		assert.True(t, st.Terminal())
	}
	assert.False(t, StatusWaiting.Terminal())
}

func TestAccessGuard(t *testing.T) {
	b := &Booking{ItemOwnerID: "owner", BookerID: "booker"}

	assert.True(t, CanApprove(b, "owner"))
	assert.False(t, CanApprove(b, "booker"))
	assert.False(t, CanApprove(b, "stranger"))

	assert.True(t, CanView(b, "owner"))
	assert.True(t, CanView(b, "booker"))
	assert.False(t, CanView(b, "stranger"))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err      error
		kind     apperror.Kind
		httpCode int
	}{
		{ErrNotFound, apperror.KindNotFound, http.StatusNotFound},
		{ErrItemUnavailable, apperror.KindInvalid, http.StatusBadRequest},
		{ErrAlreadyDecided, apperror.KindInvalid, http.StatusBadRequest},
		{ErrOwnItem, apperror.KindForbidden, http.StatusNotFound},
		{ErrNotItemOwner, apperror.KindForbidden, http.StatusNotFound},
		{ErrNoAccess, apperror.KindForbidden, http.StatusNotFound},
		{ErrTimeConflict, apperror.KindConflict, http.StatusConflict},
		{unknownState("X"), apperror.KindInvalid, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.kind, apperror.KindOf(tt.err))
			var appErr *apperror.AppError
			require.ErrorAs(t, tt.err, &appErr)
			assert.Equal(t, tt.httpCode, appErr.Code)
		})
	}
}
