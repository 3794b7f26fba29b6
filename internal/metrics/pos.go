package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// POSMetrics records journal activity. A nil *POSMetrics is a valid no-op.
type POSMetrics struct {
	salesRecorded   prometheus.Counter
	salesDeleted    prometheus.Counter
	revenue         prometheus.Counter
	cartRejections  *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	saveDuration    prometheus.Histogram
}

// NewPOSMetrics registers the journal metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	m := &POSMetrics{
		salesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_recorded_total",
			Help: "Sales appended to the ledger by checkout.",
		}),
		salesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_deleted_total",
			Help: "Sales removed from the ledger.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_revenue_recorded_total",
			Help: "Sum of checked-out sale totals.",
		}),
		cartRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_cart_rejections_total",
			Help: "Cart and checkout requests rejected by validation.",
		}, []string{"reason"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_persistence_failures_total",
			Help: "Failed state loads and saves.",
		}, []string{"op"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_state_save_duration_seconds",
			Help:    "Duration of full state writes.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.salesRecorded, m.salesDeleted, m.revenue, m.cartRejections, m.persistFailures, m.saveDuration)
	return m
}

func (m *POSMetrics) ObserveSale(total decimal.Decimal) {
	if m == nil || m.salesRecorded == nil {
		return
	}
	m.salesRecorded.Inc()
	m.revenue.Add(total.InexactFloat64())
}

func (m *POSMetrics) IncSaleDeleted() {
	if m == nil || m.salesDeleted == nil {
		return
	}
	m.salesDeleted.Inc()
}

func (m *POSMetrics) IncRejection(reason string) {
	if m == nil || m.cartRejections == nil {
		return
	}
	m.cartRejections.WithLabelValues(reason).Inc()
}

func (m *POSMetrics) IncPersistenceFailure(op string) {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.WithLabelValues(op).Inc()
}

func (m *POSMetrics) ObserveSave(duration time.Duration) {
	if m == nil || m.saveDuration == nil {
		return
	}
	m.saveDuration.Observe(duration.Seconds())
}
