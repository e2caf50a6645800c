package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/julianstephens/sanctuary/internal/constants"
)

const namespace = constants.AppName

// Metrics holds the domain metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Activity metrics
	EnergyLogs       *prometheus.CounterVec
	AnchorToggles    *prometheus.CounterVec
	StepToggles      *prometheus.CounterVec
	BrainDumpEntries *prometheus.CounterVec

	// Streak gauges, refreshed whenever activity is recorded
	StreakCurrent prometheus.Gauge
	StreakLongest prometheus.Gauge

	// Background jobs
	JobRuns     *prometheus.CounterVec
	JobDuration *prometheus.HistogramVec
}

// NewRegistry returns a registry with the Go runtime and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates the metrics and registers them with reg. A nil reg leaves them
// unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EnergyLogs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "energy_logs_total",
			Help:      "Total number of energy readings logged by level",
		}, []string{"level"}),

		AnchorToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anchor_toggles_total",
			Help:      "Total number of anchor toggles by resulting state",
		}, []string{"state"}), // state: "on" or "off"

		StepToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_step_toggles_total",
			Help:      "Total number of project step toggles by resulting state",
		}, []string{"state"}),

		BrainDumpEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brain_dump_entries_total",
			Help:      "Total number of brain dump entries captured by category",
		}, []string{"category"}),

		StreakCurrent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_current_days",
			Help:      "Current consecutive active days",
		}),

		StreakLongest: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_longest_days",
			Help:      "Longest run of consecutive active days",
		}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Total number of scheduled job runs by job and result",
		}, []string{"job", "result"}),

		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Scheduled job duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"job"}),
	}
}

func toggleState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// RecordEnergyLog records a logged energy reading
func (m *Metrics) RecordEnergyLog(level constants.EnergyLevel) {
	if m == nil {
		return
	}
	m.EnergyLogs.WithLabelValues(string(level)).Inc()
}

// RecordAnchorToggle records an anchor being checked or unchecked
func (m *Metrics) RecordAnchorToggle(on bool) {
	if m == nil {
		return
	}
	m.AnchorToggles.WithLabelValues(toggleState(on)).Inc()
}

// RecordStepToggle records a project step being completed or reopened
func (m *Metrics) RecordStepToggle(on bool) {
	if m == nil {
		return
	}
	m.StepToggles.WithLabelValues(toggleState(on)).Inc()
}

// RecordBrainDump records a captured thought
func (m *Metrics) RecordBrainDump(category constants.Category) {
	if m == nil {
		return
	}
	m.BrainDumpEntries.WithLabelValues(string(category)).Inc()
}

// SetStreak publishes the stored streak
func (m *Metrics) SetStreak(current, longest int) {
	if m == nil {
		return
	}
	m.StreakCurrent.Set(float64(current))
	m.StreakLongest.Set(float64(longest))
}

// RecordJob records one run of a scheduled job
func (m *Metrics) RecordJob(job string, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.JobRuns.WithLabelValues(job, result).Inc()
	m.JobDuration.WithLabelValues(job).Observe(took.Seconds())
}
