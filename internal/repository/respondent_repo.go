package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"questionnaire/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownField = errors.New("unknown answer field")
	ErrDuplicate    = errors.New("duplicate id")
)

// RespondentRepository define el contrato de persistencia para encuestados.
// El ID lo asigna el almacenamiento en Create.
type RespondentRepository interface {
	Create(ctx context.Context, respondent domain.Respondent) (domain.Respondent, error)
	GetByID(ctx context.Context, id int64) (domain.Respondent, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]domain.Respondent, error)
	NextID(ctx context.Context) (int64, error)
}

// PgRespondentRepository implementa RespondentRepository usando pgxpool.
type PgRespondentRepository struct {
	pool *pgxpool.Pool
}

func NewPgRespondentRepository(pool *pgxpool.Pool) *PgRespondentRepository {
	return &PgRespondentRepository{pool: pool}
}

func (r *PgRespondentRepository) Create(ctx context.Context, respondent domain.Respondent) (domain.Respondent, error) {
	const query = `
		INSERT INTO users (age, level_of_education, specialization)
		VALUES ($1, $2, $3)
		RETURNING user_id
	`
	err := r.pool.QueryRow(ctx, query,
		respondent.Age,
		respondent.EducationLevel,
		respondent.Specialization,
	).Scan(&respondent.ID)
	if err != nil {
		return domain.Respondent{}, err
	}
	return respondent, nil
}

func (r *PgRespondentRepository) GetByID(ctx context.Context, id int64) (domain.Respondent, error) {
	const query = `
		SELECT user_id, age, level_of_education, specialization
		FROM users
		WHERE user_id = $1
	`
	var resp domain.Respondent
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&resp.ID,
		&resp.Age,
		&resp.EducationLevel,
		&resp.Specialization,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Respondent{}, fmt.Errorf("respondent %d: %w", id, ErrNotFound)
	}
	return resp, err
}

func (r *PgRespondentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PgRespondentRepository) List(ctx context.Context) ([]domain.Respondent, error) {
	const query = `
		SELECT user_id, age, level_of_education, specialization
		FROM users
		ORDER BY user_id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var respondents []domain.Respondent
	for rows.Next() {
		var resp domain.Respondent
		if err := rows.Scan(&resp.ID, &resp.Age, &resp.EducationLevel, &resp.Specialization); err != nil {
			return nil, err
		}
		respondents = append(respondents, resp)
	}
	return respondents, rows.Err()
}

func (r *PgRespondentRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(user_id), 0) + 1 FROM users`).Scan(&next)
	return next, err
}
