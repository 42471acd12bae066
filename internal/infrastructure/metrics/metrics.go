package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	UsersRegistered  prometheus.Counter
	MembersUpserted  prometheus.Counter
	MembersDeleted   prometheus.Counter
	PaymentsRecorded prometheus.Counter
	AvatarsUploaded  prometheus.Counter
	AvatarBytes      prometheus.Counter
}

// New creates and registers all collectors on reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clubmembers_http_requests_total",
			Help: "Total number of HTTP requests by operation and status",
		}, []string{"method", "operation", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clubmembers_http_request_duration_seconds",
			Help:    "HTTP request latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "operation"}),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "clubmembers_users_registered_total",
			Help: "Total number of registered users",
		}),
		MembersUpserted: f.NewCounter(prometheus.CounterOpts{
			Name: "clubmembers_members_upserted_total",
			Help: "Total number of member records written by clients",
		}),
		MembersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "clubmembers_members_deleted_total",
			Help: "Total number of member records soft-deleted",
		}),
		PaymentsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "clubmembers_payments_recorded_total",
			Help: "Total number of payments inserted or updated",
		}),
		AvatarsUploaded: f.NewCounter(prometheus.CounterOpts{
			Name: "clubmembers_avatars_uploaded_total",
			Help: "Total number of avatar uploads",
		}),
		AvatarBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "clubmembers_avatar_bytes_total",
			Help: "Total bytes of avatar data uploaded",
		}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, operation string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, operation, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, operation).Observe(d.Seconds())
}

func (m *Metrics) IncrementUsersRegistered() { m.UsersRegistered.Inc() }

func (m *Metrics) IncrementMembersUpserted() { m.MembersUpserted.Inc() }

func (m *Metrics) IncrementMembersDeleted() { m.MembersDeleted.Inc() }

func (m *Metrics) IncrementPaymentsRecorded() { m.PaymentsRecorded.Inc() }

// ObserveAvatarUpload counts an upload of size bytes.
func (m *Metrics) ObserveAvatarUpload(size int) {
	m.AvatarsUploaded.Inc()
	m.AvatarBytes.Add(float64(size))
}
