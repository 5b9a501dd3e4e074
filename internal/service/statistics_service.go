package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"questionnaire/internal/domain"
	"questionnaire/internal/repository"
)

// ErrInsufficientData indica que no hay encuestados sobre los que calcular.
var ErrInsufficientData = errors.New("insufficient data: no respondents")

// ChartRenderer dibuja y exporta la distribución por nivel educativo.
type ChartRenderer interface {
	RenderEducationChart(ctx context.Context, distribution []domain.CategoryCount) error
}

// StatisticsService calcula el resumen a partir del contenido completo de
// ambos almacenes. No guarda estado entre llamadas y nunca escribe.
type StatisticsService struct {
	logger      *zap.Logger
	respondents repository.RespondentRepository
	answers     repository.AnswerRepository
	renderer    ChartRenderer
}

func NewStatisticsService(logger *zap.Logger, respondents repository.RespondentRepository, answers repository.AnswerRepository, renderer ChartRenderer) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		logger:      logger,
		respondents: respondents,
		answers:     answers,
		renderer:    renderer,
	}
}

// ComputeSummary arma el resumen completo o falla; nunca devuelve resultados parciales.
func (s *StatisticsService) ComputeSummary(ctx context.Context) (domain.StatisticsSummary, error) {
	// Todas las métricas salen de una sola lectura para que el total y la
	// distribución describan la misma foto.
	respondents, err := s.respondents.List(ctx)
	if err != nil {
		return domain.StatisticsSummary{}, fmt.Errorf("list respondents: %w", err)
	}
	total := len(respondents)
	if total == 0 {
		return domain.StatisticsSummary{}, ErrInsufficientData
	}

	q1Counts, err := s.answers.CountGroupedBy(ctx, domain.FieldQ1)
	if err != nil {
		return domain.StatisticsSummary{}, fmt.Errorf("count q1 answers: %w", err)
	}

	summary := domain.StatisticsSummary{TotalRespondents: total}
	summary.AgeMin, summary.AgeMax, summary.AgeMean = ageStats(respondents)
	summary.EducationDistribution = s.educationDistribution(respondents)

	modal, modalCount := MostFrequent(q1Counts)
	if modalCount == 0 {
		s.logger.Warn("no q1 answers found for existing respondents", zap.Int("respondents", total))
	}
	summary.MostPopularAnswerToQ1 = modal
	summary.MostPopularAnswerToQ1Percentage = Percentage(modalCount, total)

	return summary, nil
}

// RenderEducationChart delega en el renderer configurado.
func (s *StatisticsService) RenderEducationChart(ctx context.Context, distribution []domain.CategoryCount) error {
	if s.renderer == nil {
		return errors.New("chart renderer not configured")
	}
	return s.renderer.RenderEducationChart(ctx, distribution)
}

func ageStats(respondents []domain.Respondent) (minAge, maxAge, meanAge int) {
	ages := make([]float64, len(respondents))
	minAge, maxAge = respondents[0].Age, respondents[0].Age
	for i, r := range respondents {
		ages[i] = float64(r.Age)
		if r.Age < minAge {
			minAge = r.Age
		}
		if r.Age > maxAge {
			maxAge = r.Age
		}
	}
	return minAge, maxAge, RoundMean(stat.Mean(ages, nil))
}

// RoundMean redondea al entero más cercano; los .5 se alejan de cero (1.5 -> 2, 2.5 -> 3).
func RoundMean(mean float64) int {
	return int(math.Round(mean))
}

// Percentage devuelve 100*part/total redondeado a dos decimales.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*100/float64(total)*100) / 100
}

// MostFrequent devuelve el valor con más ocurrencias. Los empates se
// resuelven por orden lexicográfico ascendente del valor.
func MostFrequent(counts map[string]int) (string, int) {
	var (
		best      string
		bestCount int
	)
	for value, n := range counts {
		if n > bestCount || (n == bestCount && n > 0 && value < best) {
			best, bestCount = value, n
		}
	}
	return best, bestCount
}

func (s *StatisticsService) educationDistribution(respondents []domain.Respondent) []domain.CategoryCount {
	byLabel := make(map[string]int)
	for _, r := range respondents {
		label, known := domain.EducationLabel(r.EducationLevel)
		if !known {
			s.logger.Warn("unmapped education level, using fallback label",
				zap.Int64("respondent_id", r.ID),
				zap.String("level_of_education", r.EducationLevel),
				zap.String("label", label),
			)
		}
		byLabel[label]++
	}

	order := make(map[string]int, len(domain.EducationOptions))
	for i, opt := range domain.EducationOptions {
		order[opt.Label] = i
	}

	dist := make([]domain.CategoryCount, 0, len(byLabel))
	for label, n := range byLabel {
		dist = append(dist, domain.CategoryCount{Label: label, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool { return order[dist[i].Label] < order[dist[j].Label] })
	return dist
}
