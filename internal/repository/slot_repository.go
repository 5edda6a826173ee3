package repository // repository defines data access for parking slots

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Slot represents one physical parking space within a facility.
// BasementLabel and SlotLabel identify its position; Status is the
// current occupancy flag (AVAILABLE | OCCUPIED). Version is bumped
// on every status change and acts as an optimistic check inside the
// booking transaction.
type Slot struct {
	ID            uint64
	FacilityID    uint64
	BasementLabel string
	SlotLabel     string
	Status        string
	Version       uint32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ErrSlotNotFound is returned when a slot lookup yields no rows.
var ErrSlotNotFound = errors.New("slot not found")

// SlotRepo provides methods to work with slots in the database.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// DB exposes the underlying handle so handlers can open the booking
// transaction.
func (r *SlotRepo) DB() *sql.DB { return r.db }

// CreateBulkTx inserts multiple slots in a single statement within
// the provided transaction. Used when a facility is listed and its
// declared capacity is expanded into one row per slot.
func (r *SlotRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, slots []Slot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO slots (facility_id, basement_label, slot_label, status) VALUES `
	args := make([]interface{}, 0, len(slots)*4)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.FacilityID, s.BasementLabel, s.SlotLabel, s.Status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByFacility retrieves all slots of a facility ordered by
// basement then slot label. When basement is non-empty the result is
// restricted to that level.
func (r *SlotRepo) ListByFacility(ctx context.Context, facilityID uint64, basement string) ([]Slot, error) {
	q := `SELECT id, facility_id, basement_label, slot_label, status, version, created_at, updated_at
	      FROM slots
	      WHERE facility_id = ?`
	args := []any{facilityID}
	if basement != "" {
		q += ` AND basement_label = ?`
		args = append(args, basement)
	}
	q += ` ORDER BY basement_label, slot_label`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(
			&s.ID, &s.FacilityID, &s.BasementLabel, &s.SlotLabel,
			&s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a slot by its id (no ownership check).
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*Slot, error) {
	const q = `SELECT id, facility_id, basement_label, slot_label, status, version, created_at, updated_at
	           FROM slots WHERE id = ?`
	var s Slot
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.FacilityID, &s.BasementLabel, &s.SlotLabel, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// LockByIDTx loads a slot with SELECT ... FOR UPDATE inside the
// booking transaction. The row lock serializes concurrent booking
// writers on the same slot so that the overlap check and insert
// execute without interleaving.
func (r *SlotRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*Slot, error) {
	const q = `SELECT id, facility_id, basement_label, slot_label, status, version, created_at, updated_at
	           FROM slots WHERE id = ? FOR UPDATE`
	var s Slot
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.FacilityID, &s.BasementLabel, &s.SlotLabel, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateStatusTx flips a slot's status with an optimistic version
// check. The version must match the value read under the row lock;
// a zero rows-affected result means another writer got there first
// and is reported as ErrConflict.
func (r *SlotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, version uint32) error {
	const q = `UPDATE slots
	           SET status = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, q, status, id, version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// GetByIDAndOwner retrieves a slot by id while enforcing ownership
// via the facilities table. Used by the manual status toggle.
func (r *SlotRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Slot, error) {
	const q = `SELECT s.id, s.facility_id, s.basement_label, s.slot_label, s.status, s.version, s.created_at, s.updated_at
	           FROM slots s
	           JOIN facilities f ON f.id = s.facility_id
	           WHERE s.id = ? AND f.owner_id = ?`
	var s Slot
	err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&s.ID, &s.FacilityID, &s.BasementLabel, &s.SlotLabel, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// OwnerSlotRow is one slot joined with its facility for the owner
// dashboard, where slots are grouped facility → basement.
type OwnerSlotRow struct {
	Slot
	FacilityName string
}

// ListByOwner returns every slot across the owner's facilities,
// ordered by facility name, basement and slot label so the dashboard
// grouping is deterministic.
func (r *SlotRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]OwnerSlotRow, error) {
	const q = `SELECT s.id, s.facility_id, s.basement_label, s.slot_label, s.status, s.version,
	                  s.created_at, s.updated_at, f.name
	           FROM slots s
	           JOIN facilities f ON f.id = s.facility_id
	           WHERE f.owner_id = ?
	           ORDER BY f.name, s.basement_label, s.slot_label`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OwnerSlotRow
	for rows.Next() {
		var row OwnerSlotRow
		if err := rows.Scan(
			&row.ID, &row.FacilityID, &row.BasementLabel, &row.SlotLabel,
			&row.Status, &row.Version, &row.CreatedAt, &row.UpdatedAt, &row.FacilityName,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByFacility returns {total, available, occupied} for every
// facility owned by the given user, keyed by facility id. The
// aggregates satisfy available + occupied == total.
func (r *SlotRepo) CountByFacility(ctx context.Context, ownerID uint64) (map[uint64][3]int64, error) {
	const q = `SELECT s.facility_id,
	                  COUNT(*),
	                  SUM(s.status = 'AVAILABLE'),
	                  SUM(s.status = 'OCCUPIED')
	           FROM slots s
	           JOIN facilities f ON f.id = s.facility_id
	           WHERE f.owner_id = ?
	           GROUP BY s.facility_id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64][3]int64)
	for rows.Next() {
		var fid uint64
		var total, avail, occ int64
		if err := rows.Scan(&fid, &total, &avail, &occ); err != nil {
			return nil, err
		}
		out[fid] = [3]int64{total, avail, occ}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
