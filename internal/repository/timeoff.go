package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

// GetAllTimeOffRequests returns requests ordered by ascending date,
// optionally narrowed to one calendar date.
func (r *Repository) GetAllTimeOffRequests(date *time.Time) ([]*domain.TimeOffRequest, error) {
	query := `
		SELECT id, officer_id, date, type, shift_id, status, notes, requested_at, approved_by, approved_at
		FROM time_off_requests
	`
	args := make([]any, 0, 1)
	if date != nil {
		query += ` WHERE date = $1`
		args = append(args, date.Format("2006-01-02"))
	}
	query += ` ORDER BY date`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.TimeOffRequest, 0)
	for rows.Next() {
		request := &domain.TimeOffRequest{}
		var (
			shiftID    sql.NullString
			notes      sql.NullString
			approvedBy sql.NullString
			approvedAt sql.NullTime
		)

		dst := []any{
			&request.ID,
			&request.OfficerID,
			&request.Date,
			&request.Type,
			&shiftID,
			&request.Status,
			&notes,
			&request.RequestedAt,
			&approvedBy,
			&approvedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		request.ShiftID = shiftID.String
		request.Notes = notes.String
		request.ApprovedBy = approvedBy.String
		if approvedAt.Valid {
			t := approvedAt.Time
			request.ApprovedAt = &t
		}

		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) InsertTimeOffRequest(request *domain.TimeOffRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO time_off_requests (id, officer_id, date, type, shift_id, status, notes, approved_by, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING requested_at
	`

	var approvedAt sql.NullTime
	if request.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *request.ApprovedAt, Valid: true}
	}

	args := []any{
		request.ID,
		request.OfficerID,
		request.Date.Format("2006-01-02"),
		request.Type,
		nullIfEmpty(request.ShiftID),
		request.Status,
		nullIfEmpty(request.Notes),
		nullIfEmpty(request.ApprovedBy),
		approvedAt,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.RequestedAt); err != nil {
		return err
	}

	return nil
}

// UpdateTimeOffStatus records an approve/deny decision. Only pending requests
// transition; deciding an already-decided request returns sql.ErrNoRows.
func (r *Repository) UpdateTimeOffStatus(id string, status domain.TimeOffStatus, approvedBy string, approvedAt time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE time_off_requests
		SET status = $1, approved_by = $2, approved_at = $3
		WHERE id = $4 AND status = 'pending'
		RETURNING id
	`

	var updated string
	args := []any{status, approvedBy, approvedAt, id}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&updated); err != nil {
		return err
	}

	return nil
}
