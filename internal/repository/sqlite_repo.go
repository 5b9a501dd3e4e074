package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"questionnaire/internal/domain"
)

// SQLiteRespondentRepository persiste encuestados en el archivo local.
type SQLiteRespondentRepository struct {
	db *sql.DB
}

func NewSQLiteRespondentRepository(db *sql.DB) *SQLiteRespondentRepository {
	return &SQLiteRespondentRepository{db: db}
}

func (r *SQLiteRespondentRepository) Create(ctx context.Context, respondent domain.Respondent) (domain.Respondent, error) {
	const query = `
		INSERT INTO users (age, level_of_education, specialization)
		VALUES (?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		respondent.Age,
		respondent.EducationLevel,
		respondent.Specialization,
	)
	if err != nil {
		return domain.Respondent{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Respondent{}, err
	}
	respondent.ID = id
	return respondent, nil
}

func (r *SQLiteRespondentRepository) GetByID(ctx context.Context, id int64) (domain.Respondent, error) {
	const query = `
		SELECT user_id, age, level_of_education, specialization
		FROM users
		WHERE user_id = ?
	`
	var resp domain.Respondent
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&resp.ID,
		&resp.Age,
		&resp.EducationLevel,
		&resp.Specialization,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Respondent{}, fmt.Errorf("respondent %d: %w", id, ErrNotFound)
	}
	return resp, err
}

func (r *SQLiteRespondentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *SQLiteRespondentRepository) List(ctx context.Context) ([]domain.Respondent, error) {
	const query = `
		SELECT user_id, age, level_of_education, specialization
		FROM users
		ORDER BY user_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
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

func (r *SQLiteRespondentRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(user_id), 0) + 1 FROM users`).Scan(&next)
	return next, err
}

// SQLiteAnswerRepository persiste respuestas en el archivo local.
type SQLiteAnswerRepository struct {
	db *sql.DB
}

func NewSQLiteAnswerRepository(db *sql.DB) *SQLiteAnswerRepository {
	return &SQLiteAnswerRepository{db: db}
}

func (r *SQLiteAnswerRepository) Create(ctx context.Context, answer domain.Answer) error {
	const query = `
		INSERT INTO answers (answer_id, q1, q2, q3, q4)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		answer.ID,
		answer.Q1,
		answer.Q2,
		answer.Q3,
		answer.Q4,
	)
	if isSQLiteDuplicate(err) {
		return fmt.Errorf("answer %d: %w", answer.ID, ErrDuplicate)
	}
	return err
}

func isSQLiteDuplicate(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (r *SQLiteAnswerRepository) List(ctx context.Context) ([]domain.Answer, error) {
	const query = `
		SELECT answer_id, q1, q2, q3, q4
		FROM answers
		ORDER BY answer_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
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

func (r *SQLiteAnswerRepository) CountGroupedBy(ctx context.Context, field domain.AnswerField) (map[string]int, error) {
	query, err := groupedCountQuery(field)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query)
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
