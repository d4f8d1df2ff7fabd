package repositories

import (
	"context"
	"database/sql"
	"errors"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
)

// SQLPointRepository stores points in Postgres.
type SQLPointRepository struct {
	DB *sql.DB
}

func NewSQLPointRepository(db *sql.DB) *SQLPointRepository {
	return &SQLPointRepository{DB: db}
}

const insertPointPostgres = `
	INSERT INTO points (` + pointColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO NOTHING;
	`

// Return all points, most recently captured first.
func (s *SQLPointRepository) ListPoints(ctx context.Context) (_ []domain.CapturedPoint, err error) {
	defer obs.Time(ctx, "points.sql.ListPoints")(&err)

	if s.DB == nil {
		return nil, errors.New("point repository: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+pointColumns+` FROM points ORDER BY seq DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list points: query points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.CapturedPoint, 0, 64)
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("list points: scan rows: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list points: row iteration: %w", err)
	}

	return points, nil
}

func (s *SQLPointRepository) GetPoint(ctx context.Context, id string) (_ *domain.CapturedPoint, err error) {
	defer obs.Time(ctx, "points.sql.GetPoint")(&err)

	if s.DB == nil {
		return nil, errors.New("point repository: db is nil")
	}

	p, err := scanPoint(s.DB.QueryRowContext(ctx, `SELECT `+pointColumns+` FROM points WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get point %q: %w", id, ports.ErrPointNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get point %q: %w", id, err)
	}

	return &p, nil
}

// Store a point. An id that is already stored fails with ErrPointExists.
func (s *SQLPointRepository) SavePoint(ctx context.Context, p *domain.CapturedPoint) (err error) {
	defer obs.Time(ctx, "points.sql.SavePoint")(&err)

	if s.DB == nil {
		return errors.New("point repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, insertPointPostgres, pointArgs(p)...)
	if err != nil {
		return fmt.Errorf("save point %q: %w", p.ID, err)
	}
	if err := checkInserted(res, p.ID); err != nil {
		return fmt.Errorf("save point: %w", err)
	}

	return nil
}

func (s *SQLPointRepository) DeletePoint(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "points.sql.DeletePoint")(&err)

	if s.DB == nil {
		return errors.New("point repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM points WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete point %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete point %q: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete point %q: %w", id, ports.ErrPointNotFound)
	}

	return nil
}

func (s *SQLPointRepository) ReplaceAll(ctx context.Context, points []domain.CapturedPoint) (err error) {
	defer obs.Time(ctx, "points.sql.ReplaceAll")(&err)

	if s.DB == nil {
		return errors.New("point repository: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace points: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points;`); err != nil {
		return fmt.Errorf("replace points: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertPointPostgres)
	if err != nil {
		return fmt.Errorf("replace points: db prepare: %w", err)
	}
	defer stmt.Close()

	for i := len(points) - 1; i >= 0; i-- {
		res, err := stmt.ExecContext(ctx, pointArgs(&points[i])...)
		if err != nil {
			return fmt.Errorf("replace points: insert id=%q: %w", points[i].ID, err)
		}
		if err := checkInserted(res, points[i].ID); err != nil {
			return fmt.Errorf("replace points: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace points: commit: %w", err)
	}

	return nil
}
