package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"questionnaire/internal/domain"
)

// AnswerRepository define el contrato de persistencia para respuestas.
type AnswerRepository interface {
	Create(ctx context.Context, answer domain.Answer) error
	List(ctx context.Context) ([]domain.Answer, error)
	// CountGroupedBy cuenta ocurrencias por valor del campo; los valores vacíos no cuentan.
	CountGroupedBy(ctx context.Context, field domain.AnswerField) (map[string]int, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

func (r *PgAnswerRepository) Create(ctx context.Context, answer domain.Answer) error {
	const query = `
		INSERT INTO answers (answer_id, q1, q2, q3, q4)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		answer.ID,
		answer.Q1,
		answer.Q2,
		answer.Q3,
		answer.Q4,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("answer %d: %w", answer.ID, ErrDuplicate)
	}
	return err
}

// pgUniqueViolation es el SQLSTATE de unique_violation.
const pgUniqueViolation = "23505"

func (r *PgAnswerRepository) List(ctx context.Context) ([]domain.Answer, error) {
	const query = `
		SELECT answer_id, q1, q2, q3, q4
		FROM answers
		ORDER BY answer_id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.Q1, &a.Q2, &a.Q3, &a.Q4); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (r *PgAnswerRepository) CountGroupedBy(ctx context.Context, field domain.AnswerField) (map[string]int, error) {
	query, err := groupedCountQuery(field)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			value string
			n     int
		)
		if err := rows.Scan(&value, &n); err != nil {
			return nil, err
		}
		counts[value] = n
	}
	return counts, rows.Err()
}

// groupedCountQuery arma la consulta de agrupación; el nombre de columna sólo
// puede venir de la lista cerrada de campos.
func groupedCountQuery(field domain.AnswerField) (string, error) {
	if !field.Valid() {
		return "", fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	col := string(field)
	return fmt.Sprintf(`SELECT %[1]s, COUNT(%[1]s) FROM answers WHERE %[1]s <> '' GROUP BY %[1]s`, col), nil
}
