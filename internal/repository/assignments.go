package repository

import (
	"context"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

// InsertShiftAssignments writes one join row per entry, stamped with the
// assignment time and the default "assigned" status. The batch is atomic so a
// replace never half-applies its insert step.
func (r *Repository) InsertShiftAssignments(shiftID string, assignments []domain.OfficerAssignment, assignedBy string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shift_assignments (shift_id, officer_id, beat_id, car_id, notes, status, assigned_by, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	assignedAt := time.Now()
	for _, a := range assignments {
		args := []any{
			shiftID,
			a.OfficerID,
			nullIfEmpty(a.BeatID),
			nullIfEmpty(a.CarID),
			nullIfEmpty(a.Notes),
			domain.AssignmentAssigned,
			nullIfEmpty(assignedBy),
			assignedAt,
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftAssignments(shiftID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM shift_assignments WHERE shift_id = $1`, shiftID)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftAssignment(shiftID, officerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM shift_assignments WHERE shift_id = $1 AND officer_id = $2`
	_, err := r.dbpool.ExecContext(ctx, query, shiftID, officerID)
	if err != nil {
		return err
	}

	return nil
}
