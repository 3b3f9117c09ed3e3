package telemetry

import (
	"vocalis/config"
	"vocalis/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	PredictionsTotal    *prometheus.CounterVec
	PredictionFailTotal *prometheus.CounterVec
	QuotaRejectedTotal  *prometheus.CounterVec
	FeedbackTotal       *prometheus.CounterVec
	StageDuration       *prometheus.HistogramVec
	config              *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "Request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		PredictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricPredictionsTotal),
				Help: "Completed predictions by gender and age bracket",
			},
			labelNames(core.MetricLabelGender, core.MetricLabelBracket),
		),
		PredictionFailTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricPredictionFailTotal),
				Help: "Failed predictions by pipeline stage",
			},
			labelNames(core.MetricLabelStage, core.MetricLabelReason),
		),
		QuotaRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricQuotaRejectedTotal),
				Help: "Requests rejected by the daily quota gate",
			},
			labelNames(core.MetricLabelReason),
		),
		FeedbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricFeedbackTotal),
				Help: "Feedback submissions by correctness",
			},
			labelNames(core.MetricLabelStatus),
		),
		StageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricStageDuration),
				Help:    "Inference pipeline stage duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelStage),
		),
	}
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
