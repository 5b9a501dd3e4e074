package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questionnaire/internal/domain"
	"questionnaire/internal/metrics"
	"questionnaire/internal/service"
)

// SurveyHandler mantiene dependencias para los endpoints del cuestionario.
type SurveyHandler struct {
	logger   *zap.Logger
	intake   *service.IntakeService
	stats    *service.StatisticsService
	limiter  service.IntakeRateLimiter
	chartURL string
}

// NewSurveyHandler crea una instancia de SurveyHandler. limiter puede ser nil.
func NewSurveyHandler(
	logger *zap.Logger,
	intake *service.IntakeService,
	stats *service.StatisticsService,
	limiter service.IntakeRateLimiter,
	chartURL string,
) *SurveyHandler {
	return &SurveyHandler{
		logger:   logger,
		intake:   intake,
		stats:    stats,
		limiter:  limiter,
		chartURL: chartURL,
	}
}

type question struct {
	Param string `json:"param"`
	Field string `json:"field"`
	Topic string `json:"topic"`
}

var questions = []question{
	{Param: "generation", Field: string(domain.FieldQ1), Topic: "generation"},
	{Param: "culture_of_speech", Field: string(domain.FieldQ2), Topic: "culture of speech"},
	{Param: "stylistic_coloring", Field: string(domain.FieldQ3), Topic: "stylistic coloring"},
	{Param: "intellectual_speech", Field: string(domain.FieldQ4), Topic: "intellectual speech"},
}

// Index maneja GET /.
func (h *SurveyHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "questionnaire",
		"links": gin.H{
			"questionnaire": "/questionnaire",
			"submit":        "/results",
			"statistics":    "/statistics",
		},
	})
}

// Questionnaire maneja GET /questionnaire y describe el formulario.
func (h *SurveyHandler) Questionnaire(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"action": "/results",
		"method": http.MethodGet,
		"profile": gin.H{
			"age":                "integer",
			"level_of_education": domain.EducationOptions,
			"specialization":     "text",
		},
		"questions": questions,
	})
}

// Results maneja GET /results: registra un envío y redirige a estadísticas.
func (h *SurveyHandler) Results(c *gin.Context) {
	query := c.Request.URL.Query()
	if len(query) == 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		metrics.IntakeTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": service.ErrRateLimited.Error()})
		return
	}

	_, err := h.intake.Submit(c.Request.Context(), service.IntakeInput{
		Age:                query.Get("age"),
		LevelOfEducation:   query.Get("level_of_education"),
		Specialization:     query.Get("specialization"),
		Generation:         query.Get("generation"),
		CultureOfSpeech:    query.Get("culture_of_speech"),
		StylisticColoring:  query.Get("stylistic_coloring"),
		IntellectualSpeech: query.Get("intellectual_speech"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			metrics.IntakeTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			h.logger.Warn("invalid intake request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		metrics.IntakeTotal.WithLabelValues(metrics.OutcomeError).Inc()
		h.logger.Error("intake failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store answers"})
		return
	}

	metrics.IntakeTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	c.Redirect(http.StatusFound, "/statistics")
}

// Statistics maneja GET /statistics: recalcula el resumen y exporta el gráfico.
func (h *SurveyHandler) Statistics(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	summary, err := h.stats.ComputeSummary(ctx)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			metrics.StatisticsDuration.WithLabelValues(metrics.OutcomeInsufficient).Observe(time.Since(start).Seconds())
			c.JSON(http.StatusNotFound, gin.H{"error": "no responses yet"})
			return
		}
		metrics.StatisticsDuration.WithLabelValues(metrics.OutcomeError).Observe(time.Since(start).Seconds())
		h.logger.Error("compute statistics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute statistics"})
		return
	}

	if err := h.stats.RenderEducationChart(ctx, summary.EducationDistribution); err != nil {
		metrics.StatisticsDuration.WithLabelValues(metrics.OutcomeError).Observe(time.Since(start).Seconds())
		h.logger.Error("render education chart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render chart"})
		return
	}

	metrics.Respondents.Set(float64(summary.TotalRespondents))
	metrics.StatisticsDuration.WithLabelValues(metrics.OutcomeOK).Observe(time.Since(start).Seconds())
	c.JSON(http.StatusOK, gin.H{
		"statistics": summary,
		"chart_url":  h.chartURL,
	})
}
