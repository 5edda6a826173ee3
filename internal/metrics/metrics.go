package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parkslot",
			Name:      "bookings_created_total",
			Help:      "Bookings committed to the ledger.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parkslot",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken for an overlapping interval.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkslot",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingConflicts, httpRequests)
	})
}

// IncBookingCreated counts one committed booking.
func IncBookingCreated() { bookingsCreated.Inc() }

// IncBookingConflict counts one SlotConflict rejection.
func IncBookingConflict() { bookingConflicts.Inc() }

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) { httpRequests.WithLabelValues(endpoint).Inc() }
