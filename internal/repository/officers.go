package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/shopspring/decimal"
)

func (r *Repository) GetAllOfficers() ([]*domain.Officer, error) {
	query := `
		SELECT id, name, badge, rank, department, email, phone, avatar, is_supervisor,
			vacation_balance, holiday_balance, sick_balance, password_hash, created_at
		FROM officers
		ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	officers := make([]*domain.Officer, 0)
	for rows.Next() {
		officer := &domain.Officer{}
		if err := scanOfficer(rows.Scan, officer); err != nil {
			return nil, err
		}
		officers = append(officers, officer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return officers, nil
}

func (r *Repository) GetOfficerByID(id string) (*domain.Officer, error) {
	query := `
		SELECT id, name, badge, rank, department, email, phone, avatar, is_supervisor,
			vacation_balance, holiday_balance, sick_balance, password_hash, created_at
		FROM officers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	officer := &domain.Officer{}
	if err := scanOfficer(r.dbpool.QueryRowContext(ctx, query, id).Scan, officer); err != nil {
		return nil, err
	}

	return officer, nil
}

func (r *Repository) GetOfficerByEmail(email string) (*domain.Officer, error) {
	query := `
		SELECT id, name, badge, rank, department, email, phone, avatar, is_supervisor,
			vacation_balance, holiday_balance, sick_balance, password_hash, created_at
		FROM officers WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	officer := &domain.Officer{}
	if err := scanOfficer(r.dbpool.QueryRowContext(ctx, query, email).Scan, officer); err != nil {
		return nil, err
	}

	return officer, nil
}

func (r *Repository) CreateOfficer(officer *domain.Officer) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO officers (id, name, badge, rank, department, email, phone, avatar, is_supervisor,
			vacation_balance, holiday_balance, sick_balance, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	args := []any{
		officer.ID,
		officer.Name,
		officer.Badge,
		officer.Rank,
		officer.Department,
		officer.Email,
		nullIfEmpty(officer.Phone),
		nullIfEmpty(officer.Avatar),
		officer.IsSupervisor,
		officer.PTOBalances.Vacation,
		officer.PTOBalances.Holiday,
		officer.PTOBalances.Sick,
		officer.PasswordHash,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&officer.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateOfficerPassword(id, passwordHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `UPDATE officers SET password_hash = $1 WHERE id = $2`
	_, err := r.dbpool.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPTOBalance(officerID string, typ domain.TimeOffType) (decimal.Decimal, error) {
	column, err := balanceColumn(typ)
	if err != nil {
		return decimal.Zero, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM officers WHERE id = $1`, column)

	var balance decimal.Decimal
	if err := r.dbpool.QueryRowContext(ctx, query, officerID).Scan(&balance); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

func (r *Repository) UpdatePTOBalance(officerID string, typ domain.TimeOffType, balance decimal.Decimal) error {
	column, err := balanceColumn(typ)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := fmt.Sprintf(`UPDATE officers SET %s = $1 WHERE id = $2`, column)
	if _, err := r.dbpool.ExecContext(ctx, query, balance, officerID); err != nil {
		return err
	}

	return nil
}

// balanceColumn maps a time-off type to its officers column; the type is a
// closed enum so the column name never comes from user input.
func balanceColumn(typ domain.TimeOffType) (string, error) {
	switch typ {
	case domain.TimeOffVacation:
		return "vacation_balance", nil
	case domain.TimeOffHoliday:
		return "holiday_balance", nil
	case domain.TimeOffSick:
		return "sick_balance", nil
	default:
		return "", fmt.Errorf("unknown time off type %q", typ)
	}
}

func scanOfficer(scan func(dst ...any) error, officer *domain.Officer) error {
	var phone, avatar sql.NullString

	dst := []any{
		&officer.ID,
		&officer.Name,
		&officer.Badge,
		&officer.Rank,
		&officer.Department,
		&officer.Email,
		&phone,
		&avatar,
		&officer.IsSupervisor,
		&officer.PTOBalances.Vacation,
		&officer.PTOBalances.Holiday,
		&officer.PTOBalances.Sick,
		&officer.PasswordHash,
		&officer.CreatedAt,
	}
	if err := scan(dst...); err != nil {
		return err
	}

	officer.Phone = phone.String
	officer.Avatar = avatar.String

	return nil
}
