package repository

import (
	"context"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

func (r *Repository) GetAllPatrolCars() ([]*domain.PatrolCar, error) {
	query := `SELECT id, number, type, status FROM patrol_cars ORDER BY number`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]*domain.PatrolCar, 0)
	for rows.Next() {
		car := &domain.PatrolCar{}
		if err := rows.Scan(&car.ID, &car.Number, &car.Type, &car.Status); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cars, nil
}

func (r *Repository) CreatePatrolCar(car *domain.PatrolCar) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `INSERT INTO patrol_cars (id, number, type, status) VALUES ($1, $2, $3, $4)`
	if _, err := r.dbpool.ExecContext(ctx, query, car.ID, car.Number, car.Type, car.Status); err != nil {
		return err
	}

	return nil
}
