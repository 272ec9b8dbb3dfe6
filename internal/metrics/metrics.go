// Package metrics records conversion counters and histograms on a private
// Prometheus registry. There is no HTTP endpoint: the registry is written
// in text exposition format to a file after each batch, for collection by
// node_exporter's textfile collector or a cron scraper.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "webpdrop"

// Conversion is one finished file, as seen by the metrics layer.
type Conversion struct {
	Success           bool
	Kind              string // Error kind label; "none" on success.
	Duration          time.Duration
	Attempts          int
	InputBytes        int64
	OutputBytes       int64
	BudgetMet         bool
	HasMetadata       bool
	MetadataPreserved bool
}

// Recorder owns the registry and every collector. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	EncodeAttempts     prometheus.Histogram
	InputBytesTotal    prometheus.Counter
	OutputBytesTotal   prometheus.Counter
	BudgetUnmetTotal   prometheus.Counter
	MetadataTotal      *prometheus.CounterVec
	ScansTotal         prometheus.Counter
	FilesFound         prometheus.Gauge
	QuarantineErrors   prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		ConversionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Files converted, by outcome and error kind.",
		}, []string{"outcome", "kind"}),
		ConversionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of one file conversion.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		EncodeAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_attempts",
			Help:      "Encode attempts used per successful conversion.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		InputBytesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_bytes_total",
			Help:      "Bytes of source images converted successfully.",
		}),
		OutputBytesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_bytes_total",
			Help:      "Bytes of WebP output written.",
		}),
		BudgetUnmetTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_unmet_total",
			Help:      "Successful conversions whose output exceeds the byte budget.",
		}),
		MetadataTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_total",
			Help:      "Successful conversions by metadata status (none, preserved, lost).",
		}, []string{"status"}),
		ScansTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Source folder scans.",
		}),
		FilesFound: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files_found",
			Help:      "Eligible files found by the last scan.",
		}),
		QuarantineErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quarantine_errors_total",
			Help:      "Failed files that could not be moved to the quarantine folder.",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveConversion records one finished file.
func (r *Recorder) ObserveConversion(c Conversion) {
	if r == nil {
		return
	}
	outcome := "failure"
	if c.Success {
		outcome = "success"
	}
	r.ConversionsTotal.WithLabelValues(outcome, c.Kind).Inc()
	r.ConversionDuration.Observe(c.Duration.Seconds())
	if !c.Success {
		return
	}

	r.EncodeAttempts.Observe(float64(c.Attempts))
	r.InputBytesTotal.Add(float64(c.InputBytes))
	r.OutputBytesTotal.Add(float64(c.OutputBytes))
	if !c.BudgetMet {
		r.BudgetUnmetTotal.Inc()
	}
	switch {
	case !c.HasMetadata:
		r.MetadataTotal.WithLabelValues("none").Inc()
	case c.MetadataPreserved:
		r.MetadataTotal.WithLabelValues("preserved").Inc()
	default:
		r.MetadataTotal.WithLabelValues("lost").Inc()
	}
}

// ObserveScan records a folder scan that found n eligible files.
func (r *Recorder) ObserveScan(n int) {
	if r == nil {
		return
	}
	r.ScansTotal.Inc()
	r.FilesFound.Set(float64(n))
}

// ObserveQuarantineError records a failed move into the quarantine folder.
func (r *Recorder) ObserveQuarantineError() {
	if r == nil {
		return
	}
	r.QuarantineErrors.Inc()
}

// WriteTextfile writes the registry to path in text exposition format.
// The write is atomic. An empty path or nil Recorder is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
