package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IntakeTotal cuenta envíos del cuestionario por resultado.
	IntakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questionnaire",
		Name:      "intake_total",
		Help:      "Questionnaire submissions by outcome.",
	}, []string{"outcome"})

	// StatisticsDuration mide el cálculo del resumen más la exportación del gráfico.
	StatisticsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "questionnaire",
		Name:      "statistics_duration_seconds",
		Help:      "Time spent computing statistics and exporting the chart.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	// HTTPRequests cuenta requests por ruta y status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questionnaire",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	// Respondents refleja el total visto en el último cálculo exitoso.
	Respondents = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "questionnaire",
		Name:      "respondents",
		Help:      "Respondent count seen by the last successful statistics computation.",
	})
)

// Outcomes usados como label.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeRateLimited  = "rate_limited"
	OutcomeError        = "error"
	OutcomeInsufficient = "insufficient_data"
)
