package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/parkease/parking-slot-reservation/internal/utils"
)

// BookingRepo provides CRUD operations for the booking ledger.
// Bookings link a renter, a slot and a half-open time interval
// [start, end). Rows are append-only: the only mutation ever applied
// is the active→completed status transition. All timestamp fields
// are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transaction control.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// BookingRecord mirrors the schema of the bookings table. It is
// used internally by the repository when constructing or scanning
// rows. Business logic should use the model.Booking type instead.
type BookingRecord struct {
	ID            uint64
	SlotID        uint64
	UserID        uint64
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	CreatedAt     time.Time
}

// CreateTx inserts a new booking within the scope of an existing
// transaction. It populates the generated ID on the provided record
// and queries the row back so defaults (status, created_at) are
// filled in. The caller must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *BookingRecord) error {
	const q = `INSERT INTO bookings (slot_id, user_id, vehicle_number, start_time, end_time, status)
	           VALUES (?, ?, ?, ?, ?, 'active')`
	result, err := tx.ExecContext(ctx, q,
		b.SlotID, b.UserID, b.VehicleNumber,
		b.StartTime.UTC().Format("2006-01-02 15:04:05"),
		b.EndTime.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT id, slot_id, user_id, vehicle_number, start_time, end_time, status, created_at
	             FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.SlotID, &b.UserID, &b.VehicleNumber,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt,
	)
}

// HasOverlapTx reports whether any active booking on the slot
// intersects the half-open interval [start, end). It must run under
// the slot row lock taken by SlotRepo.LockByIDTx so the answer stays
// true until the transaction commits. Touching intervals (an
// existing booking ending exactly at start) do not count.
func (r *BookingRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, slotID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM bookings
	             WHERE slot_id = ? AND status = 'active'
	               AND start_time < ? AND end_time > ?
	           )`
	var exists bool
	err := tx.QueryRowContext(ctx, q, slotID,
		end.UTC().Format("2006-01-02 15:04:05"),
		start.UTC().Format("2006-01-02 15:04:05"),
	).Scan(&exists)
	return exists, err
}

// CompleteExpiredTx transitions all of the slot's active bookings
// whose end time has passed to completed, returning how many rows
// changed. Run at the top of the booking transaction so stale
// occupancy never blocks a new reservation.
func (r *BookingRepo) CompleteExpiredTx(ctx context.Context, tx *sql.Tx, slotID uint64) (int64, error) {
	const q = `UPDATE bookings SET status = 'completed'
	           WHERE slot_id = ? AND status = 'active' AND end_time <= UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, q, slotID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountActiveTx returns the number of bookings still active on the
// slot. When it reaches zero the slot flips back to AVAILABLE.
func (r *BookingRepo) CountActiveTx(ctx context.Context, tx *sql.Tx, slotID uint64) (int64, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE slot_id = ? AND status = 'active'`
	var n int64
	err := tx.QueryRowContext(ctx, q, slotID).Scan(&n)
	return n, err
}

// HasActiveOverlappingNow reports whether the slot has an active
// booking covering the current instant. The manual owner toggle
// uses this to refuse marking a slot AVAILABLE out from under a
// parked renter.
func (r *BookingRepo) HasActiveOverlappingNow(ctx context.Context, slotID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM bookings
	             WHERE slot_id = ? AND status = 'active'
	               AND start_time <= UTC_TIMESTAMP() AND end_time > UTC_TIMESTAMP()
	           )`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, slotID).Scan(&exists)
	return exists, err
}

// BookingDetail is a booking joined with its slot and facility for
// display to renters. Duration and amount are recomputed from the
// stored interval and the facility rate, so redisplaying a booking
// always yields the same figures.
type BookingDetail struct {
	ID            uint64    `json:"id"`
	SlotID        uint64    `json:"slot_id"`
	SlotLabel     string    `json:"slot_label"`
	BasementLabel string    `json:"basement_label"`
	FacilityID    uint64    `json:"facility_id"`
	FacilityName  string    `json:"facility_name"`
	Address       string    `json:"address"`
	VehicleNumber string    `json:"vehicle_number"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PricePerHour  int64     `json:"price_per_hour"`
	DurationHours float64   `json:"duration_hours"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

const bookingDetailQ = `SELECT b.id, b.slot_id, s.slot_label, s.basement_label,
                               f.id, f.name, f.address,
                               b.vehicle_number, b.start_time, b.end_time, b.status,
                               f.price_per_hour, b.created_at
                        FROM bookings b
                        JOIN slots s      ON s.id = b.slot_id
                        JOIN facilities f ON f.id = s.facility_id`

func scanBookingDetail(row interface{ Scan(...any) error }, d *BookingDetail) error {
	if err := row.Scan(
		&d.ID, &d.SlotID, &d.SlotLabel, &d.BasementLabel,
		&d.FacilityID, &d.FacilityName, &d.Address,
		&d.VehicleNumber, &d.StartTime, &d.EndTime, &d.Status,
		&d.PricePerHour, &d.CreatedAt,
	); err != nil {
		return err
	}
	d.DurationHours = utils.DurationHours(d.StartTime, d.EndTime)
	d.Amount = utils.BookingAmount(d.StartTime, d.EndTime, d.PricePerHour)
	return nil
}

// ListByUser returns all bookings for the given user along with
// slot and facility details, newest first. When no bookings exist,
// an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	q := bookingDetailQ + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDForUser returns a single booking for the given user. It
// returns sql.ErrNoRows when the booking does not exist and
// ErrForbidden when it belongs to a different user.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const ownerQ = `SELECT user_id FROM bookings WHERE id = ?`
	var actualUserID uint64
	if err := r.db.QueryRowContext(ctx, ownerQ, bookingID).Scan(&actualUserID); err != nil {
		return nil, err
	}
	if actualUserID != userID {
		return nil, ErrForbidden
	}
	q := bookingDetailQ + ` WHERE b.id = ?`
	var d BookingDetail
	if err := scanBookingDetail(r.db.QueryRowContext(ctx, q, bookingID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// CountByUser returns how many bookings the user has ever made.
// Reward points are derived from this figure.
func (r *BookingRepo) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE user_id = ?`
	var n int64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}
