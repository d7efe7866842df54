package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/contactnorm/contact"
)

const namespace = "contactnorm"

// Collector turns normalizer run statistics into Prometheus series.
type Collector struct {
	records  prometheus.Counter
	emails   prometheus.Counter
	dropped  *prometheus.CounterVec
	invalid  prometheus.Counter
	duration prometheus.Histogram
	lastRun  prometheus.Gauge
}

var _ contact.Observer = (*Collector)(nil)

func NewCollector() *Collector {
	return &Collector{
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Contact records read.",
		}),
		emails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Normalized e-mails produced.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_total",
			Help:      "Records left out of the output, by reason.",
		}, []string{"reason"}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_total",
			Help:      "Values that failed e-mail validation.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent normalizing one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished run.",
		}),
	}
}

// Register adds all series to reg. Series that are already registered are skipped.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.records, c.emails, c.dropped, c.invalid, c.duration, c.lastRun} {
		if err := reg.Register(col); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func (c *Collector) ObserveRun(s contact.Stats, elapsed time.Duration) {
	c.records.Add(float64(s.Input))
	c.emails.Add(float64(s.Output))
	c.invalid.Add(float64(s.Invalid))

	c.dropped.WithLabelValues("missing").Add(float64(s.Missing))
	c.dropped.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	// Empty and invalid values only leave the output when the policy drops them.
	if rest := s.Input - s.Missing - s.Duplicates - s.Output; rest > 0 {
		c.dropped.WithLabelValues("filtered").Add(float64(rest))
	}

	c.duration.Observe(elapsed.Seconds())
	c.lastRun.SetToCurrentTime()
}
