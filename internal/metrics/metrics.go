package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger/sl"
)

// Metrics owns a private registry and the collectors the service reports to.
type Metrics struct {
	reg              *prometheus.Registry
	bookingsCreated  prometheus.Counter
	bookingDecisions *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		bookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings created.",
		}),
		bookingDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_decisions_total",
			Help: "Total number of owner decisions on bookings, by resulting status.",
		}, []string{"decision"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served, by route template and status.",
		}, []string{"method", "route", "status"}),
	}
}

// BookingCreated implements booking.Observer.
func (m *Metrics) BookingCreated(*booking.Booking) {
	m.bookingsCreated.Inc()
}

// BookingDecided implements booking.Observer.
func (m *Metrics) BookingDecided(b *booking.Booking) {
	m.bookingDecisions.WithLabelValues(string(b.Status)).Inc()
}

// Middleware counts requests by route template so path ids do not explode label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *slog.Logger) error {
	const op = "metrics.Serve"
	log = log.With(slog.String("op", op), slog.String("addr", addr))

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server forced to shutdown", sl.Err(err))
		}
	}()

	log.Info("exposing Prometheus metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
