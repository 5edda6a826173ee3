package repository // repository defines data access for parking facilities

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Facility represents a parking lot offering bookable slots. Price
// is the hourly rate in whole rupees; coordinates are stored for
// map display only and carry no booking semantics.
type Facility struct {
	ID             uint64
	OwnerID        uint64
	CityID         uint64
	Name           string
	Address        string
	Latitude       float64
	Longitude      float64
	PricePerHour   int64
	TotalBasements uint32
	Contact        sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ErrFacilityNotFound is returned when a facility lookup yields no rows.
var ErrFacilityNotFound = errors.New("facility not found")

// FacilityRepo provides methods to work with facilities in the database.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo constructs a FacilityRepo with the given DB handle.
func NewFacilityRepo(db *sql.DB) *FacilityRepo {
	return &FacilityRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning facilities and slots.
func (r *FacilityRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a facility record inside an existing transaction
// so the row and its bulk-generated slots commit atomically. On
// success the generated ID is populated.
func (r *FacilityRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *Facility) error {
	const q = `INSERT INTO facilities
	           (owner_id, city_id, name, address, latitude, longitude, price_per_hour, total_basements, contact)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		f.OwnerID, f.CityID, f.Name, f.Address, f.Latitude, f.Longitude,
		f.PricePerHour, f.TotalBasements, f.Contact)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

const facilityCols = `id, owner_id, city_id, name, address, latitude, longitude,
                      price_per_hour, total_basements, contact, created_at, updated_at`

func scanFacility(row interface{ Scan(...any) error }, f *Facility) error {
	return row.Scan(&f.ID, &f.OwnerID, &f.CityID, &f.Name, &f.Address,
		&f.Latitude, &f.Longitude, &f.PricePerHour, &f.TotalBasements,
		&f.Contact, &f.CreatedAt, &f.UpdatedAt)
}

// GetByID retrieves a facility by its id (no ownership check).
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (*Facility, error) {
	q := `SELECT ` + facilityCols + ` FROM facilities WHERE id = ?`
	var f Facility
	if err := scanFacility(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByIDAndOwner retrieves a facility while enforcing ownership.
func (r *FacilityRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Facility, error) {
	q := `SELECT ` + facilityCols + ` FROM facilities WHERE id = ? AND owner_id = ?`
	var f Facility
	if err := scanFacility(r.db.QueryRowContext(ctx, q, id, ownerID), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByOwner returns all facilities owned by a user, newest first.
func (r *FacilityRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]Facility, error) {
	q := `SELECT ` + facilityCols + ` FROM facilities WHERE owner_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, ownerID)
}

// ListByCity returns all facilities in a city ordered by name.
func (r *FacilityRepo) ListByCity(ctx context.Context, cityID uint64) ([]Facility, error) {
	q := `SELECT ` + facilityCols + ` FROM facilities WHERE city_id = ? ORDER BY name`
	return r.list(ctx, q, cityID)
}

func (r *FacilityRepo) list(ctx context.Context, q string, args ...any) ([]Facility, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Facility
	for rows.Next() {
		var f Facility
		if err := scanFacility(rows, &f); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateByIDAndOwner updates the mutable listing fields. Returns
// sql.ErrNoRows when not found or not owned by this owner.
func (r *FacilityRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerID uint64, name, address string, pricePerHour int64, contact sql.NullString) error {
	const q = `UPDATE facilities
	           SET name = ?, address = ?, price_per_hour = ?, contact = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, name, address, pricePerHour, contact, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
