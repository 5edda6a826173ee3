package repository

import (
	"context"
	"database/sql"
	"errors"
)

// City mirrors the 'cities' lookup table.
type City struct {
	ID    uint64
	Name  string
	State string
}

// ErrCityNotFound is returned when a city lookup yields no rows.
var ErrCityNotFound = errors.New("city not found")

type CityRepo struct{ db *sql.DB }

func NewCityRepo(db *sql.DB) *CityRepo { return &CityRepo{db: db} }

// ListAll returns every city ordered by name.
func (r *CityRepo) ListAll(ctx context.Context) ([]City, error) {
	const q = `SELECT id, name, state FROM cities ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name, &c.State); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves one city, used to validate facility submissions.
func (r *CityRepo) GetByID(ctx context.Context, id uint64) (*City, error) {
	const q = `SELECT id, name, state FROM cities WHERE id = ?`
	var c City
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.State)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}
