package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

// GetAllShifts returns every shift with its assignment joins folded in,
// ordered by ascending start time.
func (r *Repository) GetAllShifts() ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			s.id,
			s.title,
			s.type,
			s.start_time,
			s.end_time,
			s.location,
			s.notes,
			s.color,
			s.is_recurring,
			s.recurrence_pattern,
			s.recurrence_interval,
			s.recurrence_days_of_week,
			s.recurrence_ends_on,
			s.recurrence_exceptions,
			s.created_by,
			s.created_at,
			a.officer_id,
			a.beat_id,
			a.car_id,
			a.notes
		FROM shifts s
		LEFT JOIN shift_assignments a ON s.id = a.shift_id
		ORDER BY s.start_time, s.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftsMap := make(map[string]*domain.Shift)
	order := make([]string, 0)

	for rows.Next() {
		var row struct {
			ID          string
			Title       string
			Type        string
			StartTime   time.Time
			EndTime     time.Time
			Location    sql.NullString
			Notes       sql.NullString
			Color       sql.NullString
			IsRecurring bool
			Pattern     sql.NullString
			Interval    sql.NullInt32
			DaysOfWeek  []byte
			EndsOn      sql.NullTime
			Exceptions  []byte
			CreatedBy   sql.NullString
			CreatedAt   time.Time

			OfficerID       sql.NullString
			BeatID          sql.NullString
			CarID           sql.NullString
			AssignmentNotes sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Title,
			&row.Type,
			&row.StartTime,
			&row.EndTime,
			&row.Location,
			&row.Notes,
			&row.Color,
			&row.IsRecurring,
			&row.Pattern,
			&row.Interval,
			&row.DaysOfWeek,
			&row.EndsOn,
			&row.Exceptions,
			&row.CreatedBy,
			&row.CreatedAt,
			&row.OfficerID,
			&row.BeatID,
			&row.CarID,
			&row.AssignmentNotes,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		shift, exists := shiftsMap[row.ID]
		if !exists {
			shift = &domain.Shift{
				ID:          row.ID,
				Title:       row.Title,
				Type:        domain.ShiftType(row.Type),
				StartTime:   row.StartTime,
				EndTime:     row.EndTime,
				OfficerIDs:  make([]string, 0),
				Assignments: make([]domain.OfficerAssignment, 0),
				Location:    row.Location.String,
				Notes:       row.Notes.String,
				Color:       row.Color.String,
				CreatedBy:   row.CreatedBy.String,
				CreatedAt:   row.CreatedAt,
			}

			if row.IsRecurring {
				rule := &domain.RecurrenceRule{
					Pattern:  domain.RecurrencePattern(row.Pattern.String),
					Interval: int(row.Interval.Int32),
				}
				if rule.Interval == 0 {
					rule.Interval = 1
				}
				if len(row.DaysOfWeek) > 0 {
					if err := json.Unmarshal(row.DaysOfWeek, &rule.DaysOfWeek); err != nil {
						return nil, err
					}
				}
				if row.EndsOn.Valid {
					endsOn := row.EndsOn.Time
					rule.EndsOn = &endsOn
				}
				if len(row.Exceptions) > 0 {
					if err := json.Unmarshal(row.Exceptions, &rule.Exceptions); err != nil {
						return nil, err
					}
				}
				shift.Recurrence = rule
			}

			shiftsMap[row.ID] = shift
			order = append(order, row.ID)
		}

		// no join row means the shift has no assigned officers yet
		if !row.OfficerID.Valid {
			continue
		}

		shift.OfficerIDs = append(shift.OfficerIDs, row.OfficerID.String)
		shift.Assignments = append(shift.Assignments, domain.OfficerAssignment{
			OfficerID: row.OfficerID.String,
			BeatID:    row.BeatID.String,
			CarID:     row.CarID.String,
			Notes:     row.AssignmentNotes.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	shifts := make([]*domain.Shift, 0, len(order))
	for _, id := range order {
		shifts = append(shifts, shiftsMap[id])
	}

	return shifts, nil
}

// InsertShift writes the base shift row only; assignment joins are written
// separately so a join failure never hides the base insert.
func (r *Repository) InsertShift(s *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var (
		pattern    sql.NullString
		interval   sql.NullInt32
		daysOfWeek []byte
		endsOn     sql.NullTime
		exceptions []byte
		err        error
	)
	if s.IsRecurring() {
		pattern = sql.NullString{String: string(s.Recurrence.Pattern), Valid: true}
		interval = sql.NullInt32{Int32: int32(s.Recurrence.Interval), Valid: true}
		if s.Recurrence.DaysOfWeek != nil {
			if daysOfWeek, err = json.Marshal(s.Recurrence.DaysOfWeek); err != nil {
				return err
			}
		}
		if s.Recurrence.EndsOn != nil {
			endsOn = sql.NullTime{Time: *s.Recurrence.EndsOn, Valid: true}
		}
		if s.Recurrence.Exceptions != nil {
			if exceptions, err = json.Marshal(s.Recurrence.Exceptions); err != nil {
				return err
			}
		}
	}

	query := `
		INSERT INTO shifts (
			id, title, type, start_time, end_time, location, notes, color,
			is_recurring, recurrence_pattern, recurrence_interval,
			recurrence_days_of_week, recurrence_ends_on, recurrence_exceptions,
			created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	args := []any{
		s.ID,
		s.Title,
		s.Type,
		s.StartTime,
		s.EndTime,
		nullIfEmpty(s.Location),
		nullIfEmpty(s.Notes),
		nullIfEmpty(s.Color),
		s.IsRecurring(),
		pattern,
		interval,
		daysOfWeek,
		endsOn,
		exceptions,
		nullIfEmpty(s.CreatedBy),
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt); err != nil {
		return err
	}

	return nil
}

// UpdateShift patches only the fields present on the patch. A non-nil
// recurrence block overwrites all recurrence columns at once. Assignment
// replacement is handled by the caller, not here.
func (r *Repository) UpdateShift(id string, patch *domain.ShiftPatch) error {
	sets := make([]string, 0)
	args := make([]any, 0)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Type != nil {
		set("type", *patch.Type)
	}
	if patch.StartTime != nil {
		set("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		set("end_time", *patch.EndTime)
	}
	if patch.Location != nil {
		set("location", nullIfEmpty(*patch.Location))
	}
	if patch.Notes != nil {
		set("notes", nullIfEmpty(*patch.Notes))
	}
	if patch.Color != nil {
		set("color", nullIfEmpty(*patch.Color))
	}
	if patch.Recurrence != nil {
		daysOfWeek, err := json.Marshal(patch.Recurrence.DaysOfWeek)
		if err != nil {
			return err
		}
		exceptions, err := json.Marshal(patch.Recurrence.Exceptions)
		if err != nil {
			return err
		}
		var endsOn sql.NullTime
		if patch.Recurrence.EndsOn != nil {
			endsOn = sql.NullTime{Time: *patch.Recurrence.EndsOn, Valid: true}
		}

		set("is_recurring", true)
		set("recurrence_pattern", string(patch.Recurrence.Pattern))
		set("recurrence_interval", patch.Recurrence.Interval)
		set("recurrence_days_of_week", daysOfWeek)
		set("recurrence_ends_on", endsOn)
		set("recurrence_exceptions", exceptions)
	}

	if len(sets) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args = append(args, id)
	query := fmt.Sprintf("UPDATE shifts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.dbpool.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DeleteShift removes the assignment joins before the shift row so a
// concurrent reader never observes a dangling join.
func (r *Repository) DeleteShift(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_assignments WHERE shift_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
