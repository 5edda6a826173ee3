package repository

import (
	"context"
	"strings"
)

// FacilitySearchQuery defines filters & pagination for searching facilities.
type FacilitySearchQuery struct {
	Name     string
	City     string
	MaxPrice int64
	Page     int
	PageSize int
}

// PublicFacilityRow is a search hit exposed to unauthenticated
// clients. Coordinates are included for map pins; owner identity is
// not.
type PublicFacilityRow struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	CityID       uint64  `json:"city_id"`
	City         string  `json:"city"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PricePerHour int64   `json:"price_per_hour"`
	TotalSlots   int64   `json:"total_slots"`
	Available    int64   `json:"available"`
}

// Search returns facilities matching the query plus the total hit
// count for pagination. Name and city match case-insensitively as
// substrings; MaxPrice of zero means unbounded.
func (r *FacilityRepo) Search(ctx context.Context, q FacilitySearchQuery) ([]PublicFacilityRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(f.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.City != "" {
		where = append(where, "LOWER(c.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.City)+"%")
	}
	if q.MaxPrice > 0 {
		where = append(where, "f.price_per_hour <= ?")
		args = append(args, q.MaxPrice)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM facilities f
		JOIN cities c ON c.id = f.city_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			f.id,
			f.name,
			f.address,
			c.id   AS city_id,
			c.name AS city_name,
			f.latitude,
			f.longitude,
			f.price_per_hour,
			COUNT(s.id)                                  AS total_slots,
			COALESCE(SUM(s.status = 'AVAILABLE'), 0)     AS available
		FROM facilities f
		JOIN cities c ON c.id = f.city_id
		LEFT JOIN slots s ON s.facility_id = f.id
		WHERE ` + cond + `
		GROUP BY f.id, f.name, f.address, c.id, c.name, f.latitude, f.longitude, f.price_per_hour
		ORDER BY f.name ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicFacilityRow, 0, limit)
	for rows.Next() {
		var d PublicFacilityRow
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Address,
			&d.CityID,
			&d.City,
			&d.Latitude,
			&d.Longitude,
			&d.PricePerHour,
			&d.TotalSlots,
			&d.Available,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
