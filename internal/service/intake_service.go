package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"questionnaire/internal/domain"
	"questionnaire/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
)

// IntakeInput contiene los campos crudos del formulario, tal como llegan.
type IntakeInput struct {
	Age                string
	LevelOfEducation   string
	Specialization     string
	Generation         string
	CultureOfSpeech    string
	StylisticColoring  string
	IntellectualSpeech string
}

// IntakeService registra un encuestado y sus respuestas con el mismo ID.
type IntakeService struct {
	logger      *zap.Logger
	respondents repository.RespondentRepository
	answers     repository.AnswerRepository
	// mu serializa el alta en dos pasos dentro del proceso.
	mu sync.Mutex
}

func NewIntakeService(logger *zap.Logger, respondents repository.RespondentRepository, answers repository.AnswerRepository) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		logger:      logger,
		respondents: respondents,
		answers:     answers,
	}
}

// Submit valida la entrada, crea el Respondent y luego su Answer emparejada.
// Si falla el segundo insert queda un Respondent huérfano; las estadísticas lo toleran.
func (s *IntakeService) Submit(ctx context.Context, input IntakeInput) (domain.Respondent, error) {
	if s.respondents == nil || s.answers == nil {
		return domain.Respondent{}, errors.New("intake service not configured")
	}

	respondent, err := parseRespondent(input)
	if err != nil {
		return domain.Respondent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.respondents.Create(ctx, respondent)
	if err != nil {
		return domain.Respondent{}, fmt.Errorf("create respondent: %w", err)
	}
	// Relee la fila para confirmar que la escritura quedó persistida.
	stored, err := s.respondents.GetByID(ctx, created.ID)
	if err != nil {
		return domain.Respondent{}, fmt.Errorf("reload respondent %d: %w", created.ID, err)
	}

	answer := domain.Answer{
		ID: stored.ID,
		Q1: strings.TrimSpace(input.Generation),
		Q2: strings.TrimSpace(input.CultureOfSpeech),
		Q3: strings.TrimSpace(input.StylisticColoring),
		Q4: strings.TrimSpace(input.IntellectualSpeech),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		s.logger.Error("answer insert failed, respondent left without answers",
			zap.Int64("respondent_id", stored.ID), zap.Error(err))
		return domain.Respondent{}, fmt.Errorf("create answer %d: %w", stored.ID, err)
	}

	s.logger.Info("intake stored",
		zap.Int64("respondent_id", stored.ID),
		zap.String("level_of_education", stored.EducationLevel),
	)
	return stored, nil
}

func parseRespondent(input IntakeInput) (domain.Respondent, error) {
	rawAge := strings.TrimSpace(input.Age)
	if rawAge == "" {
		return domain.Respondent{}, fmt.Errorf("age is required: %w", ErrInvalidInput)
	}
	age, err := strconv.Atoi(rawAge)
	if err != nil {
		return domain.Respondent{}, fmt.Errorf("age %q is not a number: %w", rawAge, ErrInvalidInput)
	}
	if age < 0 {
		return domain.Respondent{}, fmt.Errorf("age %d is negative: %w", age, ErrInvalidInput)
	}

	education := strings.TrimSpace(input.LevelOfEducation)
	if education == "" {
		return domain.Respondent{}, fmt.Errorf("level_of_education is required: %w", ErrInvalidInput)
	}

	return domain.Respondent{
		Age:            age,
		EducationLevel: education,
		Specialization: strings.TrimSpace(input.Specialization),
	}, nil
}
