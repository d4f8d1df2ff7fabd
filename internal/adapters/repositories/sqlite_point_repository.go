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

// SQLite-backed implementation of the PointRepository port.
type SqlitePointRepository struct{ DB *sql.DB }

func NewSqlitePointRepository(db *sql.DB) *SqlitePointRepository {
	return &SqlitePointRepository{DB: db}
}

const insertPointSqlite = `INSERT INTO points (` + pointColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO NOTHING;`

// Return all points, most recently captured first.
func (s *SqlitePointRepository) ListPoints(ctx context.Context) (_ []domain.CapturedPoint, err error) {
	defer obs.Time(ctx, "points.sqlite.ListPoints")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite point repository: DB is nil")
	}

	query := `SELECT ` + pointColumns + ` FROM points ORDER BY seq DESC;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list points: query points table: %w", err)
	}
	defer rows.Close()

	points := make([]domain.CapturedPoint, 0, 64)
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("list points: scan row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list points: row iteration: %w", err)
	}

	return points, nil
}

func (s *SqlitePointRepository) GetPoint(ctx context.Context, id string) (_ *domain.CapturedPoint, err error) {
	defer obs.Time(ctx, "points.sqlite.GetPoint")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite point repository: DB is nil")
	}

	query := `SELECT ` + pointColumns + ` FROM points WHERE id = ?;`
	p, err := scanPoint(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get point %q: %w", id, ports.ErrPointNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get point %q: %w", id, err)
	}

	return &p, nil
}

func (s *SqlitePointRepository) SavePoint(ctx context.Context, p *domain.CapturedPoint) (err error) {
	defer obs.Time(ctx, "points.sqlite.SavePoint")(&err)

	if s.DB == nil {
		return errors.New("sqlite point repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, insertPointSqlite, pointArgs(p)...)
	if err != nil {
		return fmt.Errorf("save point %q: %w", p.ID, err)
	}
	if err := checkInserted(res, p.ID); err != nil {
		return fmt.Errorf("save point: %w", err)
	}

	return nil
}

func (s *SqlitePointRepository) DeletePoint(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "points.sqlite.DeletePoint")(&err)

	if s.DB == nil {
		return errors.New("sqlite point repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM points WHERE id = ?;`, id)
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

// Replace the collection. points is newest first, so rows are inserted in
// reverse to keep the sequence order.
func (s *SqlitePointRepository) ReplaceAll(ctx context.Context, points []domain.CapturedPoint) (err error) {
	defer obs.Time(ctx, "points.sqlite.ReplaceAll")(&err)

	if s.DB == nil {
		return errors.New("sqlite point repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace points: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points;`); err != nil {
		return fmt.Errorf("replace points: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertPointSqlite)
	if err != nil {
		return fmt.Errorf("replace points: prepare insert: %w", err)
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
		return fmt.Errorf("replace points: commit tx: %w", err)
	}

	return nil
}
