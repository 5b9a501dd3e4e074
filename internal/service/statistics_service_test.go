package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"questionnaire/internal/domain"
	"questionnaire/internal/repository"
)

type surveyFixture struct {
	respondents *repository.MemoryRespondentRepository
	answers     *repository.MemoryAnswerRepository
	intake      *IntakeService
	stats       *StatisticsService
}

func newSurveyFixture() *surveyFixture {
	respondents := repository.NewMemoryRespondentRepository()
	answers := repository.NewMemoryAnswerRepository()
	return &surveyFixture{
		respondents: respondents,
		answers:     answers,
		intake:      NewIntakeService(zap.NewNop(), respondents, answers),
		stats:       NewStatisticsService(zap.NewNop(), respondents, answers, nil),
	}
}

func (f *surveyFixture) add(t *testing.T, age, education, q1 string) domain.Respondent {
	t.Helper()
	r, err := f.intake.Submit(context.Background(), IntakeInput{
		Age:              age,
		LevelOfEducation: education,
		Generation:       q1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return r
}

func TestComputeSummary_EmptyStore(t *testing.T) {
	f := newSurveyFixture()
	_, err := f.stats.ComputeSummary(context.Background())
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComputeSummary_SingleRespondent(t *testing.T) {
	f := newSurveyFixture()
	f.add(t, "30", domain.EducationStudent, "informal")

	got, err := f.stats.ComputeSummary(context.Background())
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}
	want := domain.StatisticsSummary{
		TotalRespondents:                1,
		AgeMin:                          30,
		AgeMax:                          30,
		AgeMean:                         30,
		MostPopularAnswerToQ1:           "informal",
		MostPopularAnswerToQ1Percentage: 100.00,
		EducationDistribution:           []domain.CategoryCount{{Label: "студент", Count: 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected summary:\n got %+v\nwant %+v", got, want)
	}
}

func TestComputeSummary_MeanRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name string
		ages []string
		want int
	}{
		{name: "1.5 rounds up", ages: []string{"1", "2"}, want: 2},
		{name: "2.5 rounds up, not to even", ages: []string{"2", "3"}, want: 3},
		{name: "below half rounds down", ages: []string{"20", "20", "21"}, want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSurveyFixture()
			for _, age := range tt.ages {
				f.add(t, age, domain.EducationHigher, "x")
			}
			got, err := f.stats.ComputeSummary(context.Background())
			if err != nil {
				t.Fatalf("compute summary: %v", err)
			}
			if got.AgeMean != tt.want {
				t.Fatalf("expected mean %d, got %d", tt.want, got.AgeMean)
			}
		})
	}
}

func TestComputeSummary_AgeExtrema(t *testing.T) {
	f := newSurveyFixture()
	for _, age := range []string{"45", "17", "63", "30"} {
		f.add(t, age, domain.EducationHigher, "x")
	}
	got, err := f.stats.ComputeSummary(context.Background())
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}
	if got.AgeMin != 17 || got.AgeMax != 63 || got.AgeMean != 39 {
		t.Fatalf("unexpected ages min=%d max=%d mean=%d", got.AgeMin, got.AgeMax, got.AgeMean)
	}
}

func TestComputeSummary_ModalTieBreakIsDeterministic(t *testing.T) {
	f := newSurveyFixture()
	f.add(t, "20", domain.EducationStudent, "B")
	f.add(t, "21", domain.EducationStudent, "A")

	for i := 0; i < 20; i++ {
		got, err := f.stats.ComputeSummary(context.Background())
		if err != nil {
			t.Fatalf("compute summary: %v", err)
		}
		if got.MostPopularAnswerToQ1 != "A" {
			t.Fatalf("run %d: expected lexicographically smallest tie winner A, got %q", i, got.MostPopularAnswerToQ1)
		}
		if got.MostPopularAnswerToQ1Percentage != 50 {
			t.Fatalf("expected 50%%, got %v", got.MostPopularAnswerToQ1Percentage)
		}
	}
}

func TestComputeSummary_PercentageRoundsToTwoDecimals(t *testing.T) {
	f := newSurveyFixture()
	f.add(t, "20", domain.EducationStudent, "yes")
	f.add(t, "21", domain.EducationStudent, "yes")
	f.add(t, "22", domain.EducationStudent, "no")

	got, err := f.stats.ComputeSummary(context.Background())
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}
	if got.MostPopularAnswerToQ1 != "yes" || got.MostPopularAnswerToQ1Percentage != 66.67 {
		t.Fatalf("expected yes at 66.67%%, got %q at %v", got.MostPopularAnswerToQ1, got.MostPopularAnswerToQ1Percentage)
	}
}

func TestComputeSummary_DistributionKeepsUnmappedValues(t *testing.T) {
	f := newSurveyFixture()
	f.add(t, "20", domain.EducationHigher, "x")
	f.add(t, "21", "doctor_of_science", "x")
	f.add(t, "22", domain.EducationAcademicDegree, "x")
	f.add(t, "15", domain.EducationSchoolPupil, "x")
	f.add(t, "19", domain.EducationStudent, "x")

	got, err := f.stats.ComputeSummary(context.Background())
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}

	want := []domain.CategoryCount{
		{Label: "школьник", Count: 1},
		{Label: "студент", Count: 1},
		{Label: "высшее", Count: 1},
		{Label: domain.FallbackEducationLabel, Count: 2},
	}
	if !reflect.DeepEqual(got.EducationDistribution, want) {
		t.Fatalf("unexpected distribution: %+v", got.EducationDistribution)
	}

	total := 0
	for _, c := range got.EducationDistribution {
		total += c.Count
	}
	if total != got.TotalRespondents {
		t.Fatalf("distribution sums to %d, expected %d", total, got.TotalRespondents)
	}
}

func TestComputeSummary_IsReadOnly(t *testing.T) {
	f := newSurveyFixture()
	f.add(t, "30", domain.EducationStudent, "informal")
	f.add(t, "40", domain.EducationHigher, "formal")

	ctx := context.Background()
	beforeAnswers, _ := f.answers.List(ctx)
	for i := 0; i < 5; i++ {
		if _, err := f.stats.ComputeSummary(ctx); err != nil {
			t.Fatalf("compute summary: %v", err)
		}
	}
	count, _ := f.respondents.Count(ctx)
	afterAnswers, _ := f.answers.List(ctx)
	if count != 2 {
		t.Fatalf("respondent count changed to %d", count)
	}
	if !reflect.DeepEqual(beforeAnswers, afterAnswers) {
		t.Fatalf("answers changed: before=%+v after=%+v", beforeAnswers, afterAnswers)
	}
}

func TestComputeSummary_ToleratesOrphanedRespondent(t *testing.T) {
	respondents := repository.NewMemoryRespondentRepository()
	answers := repository.NewMemoryAnswerRepository()
	ctx := context.Background()
	if _, err := respondents.Create(ctx, domain.Respondent{Age: 33, EducationLevel: domain.EducationHigher}); err != nil {
		t.Fatalf("create respondent: %v", err)
	}

	svc := NewStatisticsService(zap.NewNop(), respondents, answers, nil)
	got, err := svc.ComputeSummary(ctx)
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}
	if got.TotalRespondents != 1 || got.MostPopularAnswerToQ1 != "" || got.MostPopularAnswerToQ1Percentage != 0 {
		t.Fatalf("unexpected summary for orphaned respondent: %+v", got)
	}
}

type failingAnswerRepo struct {
	repository.AnswerRepository
	err error
}

func (f failingAnswerRepo) CountGroupedBy(context.Context, domain.AnswerField) (map[string]int, error) {
	return nil, f.err
}

func TestComputeSummary_StoreErrorPropagates(t *testing.T) {
	respondents := repository.NewMemoryRespondentRepository()
	ctx := context.Background()
	if _, err := respondents.Create(ctx, domain.Respondent{Age: 33, EducationLevel: domain.EducationHigher}); err != nil {
		t.Fatalf("create respondent: %v", err)
	}
	diskErr := errors.New("disk I/O error")
	svc := NewStatisticsService(zap.NewNop(), respondents, failingAnswerRepo{err: diskErr}, nil)

	got, err := svc.ComputeSummary(ctx)
	if !errors.Is(err, diskErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if !reflect.DeepEqual(got, domain.StatisticsSummary{}) {
		t.Fatalf("expected no partial summary, got %+v", got)
	}
}

type recordingRenderer struct {
	calls [][]domain.CategoryCount
}

func (r *recordingRenderer) RenderEducationChart(_ context.Context, dist []domain.CategoryCount) error {
	r.calls = append(r.calls, dist)
	return nil
}

func TestRenderEducationChart_Delegates(t *testing.T) {
	renderer := &recordingRenderer{}
	svc := NewStatisticsService(zap.NewNop(), nil, nil, renderer)
	dist := []domain.CategoryCount{{Label: "студент", Count: 2}}

	if err := svc.RenderEducationChart(context.Background(), dist); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(renderer.calls) != 1 || !reflect.DeepEqual(renderer.calls[0], dist) {
		t.Fatalf("unexpected renderer calls: %+v", renderer.calls)
	}

	if err := NewStatisticsService(nil, nil, nil, nil).RenderEducationChart(context.Background(), dist); err == nil {
		t.Fatalf("expected error without renderer")
	}
}

func TestMostFrequent(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[string]int
		wantValue string
		wantCount int
	}{
		{name: "empty", counts: map[string]int{}, wantValue: "", wantCount: 0},
		{name: "clear winner", counts: map[string]int{"a": 1, "b": 3, "c": 2}, wantValue: "b", wantCount: 3},
		{name: "three way tie", counts: map[string]int{"z": 2, "m": 2, "k": 2}, wantValue: "k", wantCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, count := MostFrequent(tt.counts)
			if value != tt.wantValue || count != tt.wantCount {
				t.Fatalf("MostFrequent = (%q, %d), want (%q, %d)", value, count, tt.wantValue, tt.wantCount)
			}
		})
	}
}

// racingRespondentRepo simula un alta concurrente que aterriza durante Count.
type racingRespondentRepo struct {
	*repository.MemoryRespondentRepository
}

func (r racingRespondentRepo) Count(ctx context.Context) (int, error) {
	n, err := r.MemoryRespondentRepository.Count(ctx)
	if err != nil {
		return 0, err
	}
	_, err = r.MemoryRespondentRepository.Create(ctx, domain.Respondent{Age: 90, EducationLevel: domain.EducationHigher})
	return n, err
}

func TestComputeSummary_UsesSingleSnapshot(t *testing.T) {
	ctx := context.Background()
	base := repository.NewMemoryRespondentRepository()
	answers := repository.NewMemoryAnswerRepository()
	if _, err := base.Create(ctx, domain.Respondent{Age: 20, EducationLevel: domain.EducationStudent}); err != nil {
		t.Fatalf("create respondent: %v", err)
	}
	if err := answers.Create(ctx, domain.Answer{ID: 1, Q1: "informal"}); err != nil {
		t.Fatalf("create answer: %v", err)
	}
	respondents := racingRespondentRepo{base}
	// Dispara el alta intermedia antes del cálculo.
	if _, err := respondents.Count(ctx); err != nil {
		t.Fatalf("count: %v", err)
	}

	got, err := NewStatisticsService(zap.NewNop(), respondents, answers, nil).ComputeSummary(ctx)
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}
	sum := 0
	for _, c := range got.EducationDistribution {
		sum += c.Count
	}
	if sum != got.TotalRespondents {
		t.Fatalf("distribution sums to %d but TotalRespondents=%d", sum, got.TotalRespondents)
	}
	if got.TotalRespondents != 2 || got.AgeMax != 90 || got.AgeMean != 55 {
		t.Fatalf("summary not built from one snapshot: %+v", got)
	}
	if got.MostPopularAnswerToQ1Percentage != 50 {
		t.Fatalf("expected percentage over the listed total, got %v", got.MostPopularAnswerToQ1Percentage)
	}
}

// staleCountRepo devuelve un Count que no coincide con List.
type staleCountRepo struct {
	*repository.MemoryRespondentRepository
	count int
}

func (r staleCountRepo) Count(context.Context) (int, error) { return r.count, nil }

func TestComputeSummary_IgnoresDisagreeingCount(t *testing.T) {
	ctx := context.Background()
	base := repository.NewMemoryRespondentRepository()
	if _, err := base.Create(ctx, domain.Respondent{Age: 30, EducationLevel: domain.EducationStudent}); err != nil {
		t.Fatalf("create respondent: %v", err)
	}

	got, err := NewStatisticsService(zap.NewNop(), staleCountRepo{base, 7}, repository.NewMemoryAnswerRepository(), nil).ComputeSummary(ctx)
	if err != nil {
		t.Fatalf("compute summary: %v", err)
	}
	if got.TotalRespondents != 1 {
		t.Fatalf("expected total from listed rows, got %d", got.TotalRespondents)
	}

	_, err = NewStatisticsService(zap.NewNop(), staleCountRepo{repository.NewMemoryRespondentRepository(), 3}, repository.NewMemoryAnswerRepository(), nil).ComputeSummary(ctx)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty list, got %v", err)
	}
}
