package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
)

func TestBookingObserver(t *testing.T) {
	m := New()

	m.BookingCreated(&booking.Booking{})
	m.BookingCreated(&booking.Booking{})
	m.BookingDecided(&booking.Booking{Status: booking.StatusApproved})
	m.BookingDecided(&booking.Booking{Status: booking.StatusRejected})
	m.BookingDecided(&booking.Booking{Status: booking.StatusApproved})

	assert.InDelta(t, 2, testutil.ToFloat64(m.bookingsCreated), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.bookingDecisions.WithLabelValues("APPROVED")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.bookingDecisions.WithLabelValues("REJECTED")), 0)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/v1/bookings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/v1/bookings/a", "/v1/bookings/b", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/v1/bookings/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")), 0)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}
