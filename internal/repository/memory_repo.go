package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"questionnaire/internal/domain"
)

// MemoryRespondentRepository guarda encuestados en memoria; útil en tests y
// en el modo efímero (STORAGE_DRIVER=memory).
type MemoryRespondentRepository struct {
	mu    sync.RWMutex
	items map[int64]domain.Respondent
	maxID int64
}

func NewMemoryRespondentRepository() *MemoryRespondentRepository {
	return &MemoryRespondentRepository{items: make(map[int64]domain.Respondent)}
}

func (r *MemoryRespondentRepository) Create(_ context.Context, respondent domain.Respondent) (domain.Respondent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxID++
	respondent.ID = r.maxID
	r.items[respondent.ID] = respondent
	return respondent, nil
}

func (r *MemoryRespondentRepository) GetByID(_ context.Context, id int64) (domain.Respondent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resp, ok := r.items[id]
	if !ok {
		return domain.Respondent{}, fmt.Errorf("respondent %d: %w", id, ErrNotFound)
	}
	return resp, nil
}

func (r *MemoryRespondentRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryRespondentRepository) List(_ context.Context) ([]domain.Respondent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Respondent, 0, len(r.items))
	for _, resp := range r.items {
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRespondentRepository) NextID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxID + 1, nil
}

// MemoryAnswerRepository guarda respuestas en memoria.
type MemoryAnswerRepository struct {
	mu    sync.RWMutex
	items map[int64]domain.Answer
}

func NewMemoryAnswerRepository() *MemoryAnswerRepository {
	return &MemoryAnswerRepository{items: make(map[int64]domain.Answer)}
}

func (r *MemoryAnswerRepository) Create(_ context.Context, answer domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[answer.ID]; exists {
		return fmt.Errorf("answer %d: %w", answer.ID, ErrDuplicate)
	}
	r.items[answer.ID] = answer
	return nil
}

func (r *MemoryAnswerRepository) List(_ context.Context) ([]domain.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Answer, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryAnswerRepository) CountGroupedBy(_ context.Context, field domain.AnswerField) (map[string]int, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, a := range r.items {
		if v := a.Value(field); v != "" {
			counts[v]++
		}
	}
	return counts, nil
}
