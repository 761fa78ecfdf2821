package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application lifecycle module.
// Tracks submissions, transition outcomes and the create critical path.
type Metrics struct {
	ApplicationsCreated prometheus.Counter
	CreateConflicts     prometheus.Counter
	Transitions         *prometheus.CounterVec
	ApprovalRacesLost   prometheus.Counter
	CreateDuration      prometheus.Histogram
}

// New creates a Metrics instance with all lifecycle metrics registered.
func New() *Metrics {
	return &Metrics{
		ApplicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeward_applications_created_total",
			Help: "Total number of adoption applications created",
		}),
		CreateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeward_application_create_conflicts_total",
			Help: "Creates rejected for an unavailable pet or duplicate active application",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homeward_application_transitions_total",
			Help: "Status transitions by target status",
		}, []string{"to"}),
		ApprovalRacesLost: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homeward_application_approval_races_lost_total",
			Help: "Approvals aborted because the pet's status changed concurrently",
		}),
		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "homeward_application_create_duration_seconds",
			Help:    "Duration of application create operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a successful application creation.
func (m *Metrics) IncrementCreated() {
	m.ApplicationsCreated.Inc()
}

// IncrementCreateConflict records a create rejected by the uniqueness or
// availability guard.
func (m *Metrics) IncrementCreateConflict() {
	m.CreateConflicts.Inc()
}

// IncrementTransition records a successful transition to the given status.
func (m *Metrics) IncrementTransition(to string) {
	m.Transitions.WithLabelValues(to).Inc()
}

// IncrementApprovalRaceLost records an approval aborted by the pet cascade.
func (m *Metrics) IncrementApprovalRaceLost() {
	m.ApprovalRacesLost.Inc()
}

// ObserveCreate records the duration of a create operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	m.CreateDuration.Observe(time.Since(start).Seconds())
}
