package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxform_extractions_total",
			Help: "Total number of transcript extractions by result source and failure stage",
		},
		[]string{"source", "stage"},
	)

	ContractViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voxform_extraction_contract_violations_total",
			Help: "Model outputs that parsed as JSON but did not match the form schema",
		},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voxform_completion_duration_seconds",
			Help:    "Duration of completion provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"outcome"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxform_submissions_total",
			Help: "Total number of response submissions by outcome",
		},
		[]string{"outcome"},
	)
)
