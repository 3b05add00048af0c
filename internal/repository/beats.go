package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

func (r *Repository) GetAllBeats() ([]*domain.Beat, error) {
	query := `SELECT id, name, district, description FROM beats ORDER BY name`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	beats := make([]*domain.Beat, 0)
	for rows.Next() {
		beat := &domain.Beat{}
		var description sql.NullString
		if err := rows.Scan(&beat.ID, &beat.Name, &beat.District, &description); err != nil {
			return nil, err
		}
		beat.Description = description.String
		beats = append(beats, beat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return beats, nil
}

func (r *Repository) CreateBeat(beat *domain.Beat) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `INSERT INTO beats (id, name, district, description) VALUES ($1, $2, $3, $4)`
	args := []any{beat.ID, beat.Name, beat.District, nullIfEmpty(beat.Description)}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}
