package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/parkease/parking-slot-reservation/internal/utils"
)

// ReportRepo provides the read-only aggregations behind the owner
// dashboard: booking history with filters, per-facility statistics
// and occupancy. It never mutates rows.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// BookingReportQuery defines filters for the owner booking history.
// Zero values mean "no filter". From/To bound the booking start time.
type BookingReportQuery struct {
	Status     string
	FacilityID uint64
	From       time.Time
	To         time.Time
}

// OwnerBookingRow is one history entry joined against the renter's
// profile. Profile fields fall back to "N/A" when the profile row is
// missing, so a dropped profile never fails the whole report.
type OwnerBookingRow struct {
	ID            uint64    `json:"id"`
	FacilityID    uint64    `json:"facility_id"`
	FacilityName  string    `json:"facility_name"`
	BasementLabel string    `json:"basement_label"`
	SlotLabel     string    `json:"slot_label"`
	RenterName    string    `json:"renter_name"`
	RenterEmail   string    `json:"renter_email"`
	VehicleNumber string    `json:"vehicle_number"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	DurationHours float64   `json:"duration_hours"`
	Amount        int64     `json:"amount"`
}

// ListForOwner returns bookings on the owner's facilities matching
// the query, ordered by start time descending.
func (r *ReportRepo) ListForOwner(ctx context.Context, ownerID uint64, q BookingReportQuery) ([]OwnerBookingRow, error) {
	where := []string{"f.owner_id = ?"}
	args := []any{ownerID}

	if q.Status != "" && q.Status != "all" {
		where = append(where, "b.status = ?")
		args = append(args, q.Status)
	}
	if q.FacilityID != 0 {
		where = append(where, "f.id = ?")
		args = append(args, q.FacilityID)
	}
	if !q.From.IsZero() {
		where = append(where, "b.start_time >= ?")
		args = append(args, q.From.UTC().Format("2006-01-02 15:04:05"))
	}
	if !q.To.IsZero() {
		where = append(where, "b.start_time < ?")
		args = append(args, q.To.UTC().Format("2006-01-02 15:04:05"))
	}

	query := `SELECT b.id, f.id, f.name, s.basement_label, s.slot_label,
	                 p.full_name, p.email,
	                 b.vehicle_number, b.start_time, b.end_time, b.status,
	                 f.price_per_hour
	          FROM bookings b
	          JOIN slots s       ON s.id = b.slot_id
	          JOIN facilities f  ON f.id = s.facility_id
	          LEFT JOIN profiles p ON p.id = b.user_id
	          WHERE ` + strings.Join(where, " AND ") + `
	          ORDER BY b.start_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]OwnerBookingRow, 0)
	for rows.Next() {
		var row OwnerBookingRow
		var name, email sql.NullString
		var pricePerHour int64
		if err := rows.Scan(
			&row.ID, &row.FacilityID, &row.FacilityName, &row.BasementLabel, &row.SlotLabel,
			&name, &email,
			&row.VehicleNumber, &row.StartTime, &row.EndTime, &row.Status,
			&pricePerHour,
		); err != nil {
			return nil, err
		}
		row.RenterName = orNA(name)
		row.RenterEmail = orNA(email)
		row.DurationHours = utils.DurationHours(row.StartTime, row.EndTime)
		row.Amount = utils.BookingAmount(row.StartTime, row.EndTime, pricePerHour)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func orNA(s sql.NullString) string {
	if s.Valid && strings.TrimSpace(s.String) != "" {
		return s.String
	}
	return "N/A"
}

// FacilityStats aggregates the ledger and the slot registry for one
// facility. Revenue is the sum of per-booking amounts computed the
// same way they are displayed, so the dashboard and the history
// never disagree.
type FacilityStats struct {
	FacilityID   uint64 `json:"facility_id"`
	FacilityName string `json:"facility_name"`
	Bookings     int64  `json:"bookings"`
	Active       int64  `json:"active"`
	Completed    int64  `json:"completed"`
	Revenue      int64  `json:"revenue"`
	TotalSlots   int64  `json:"total_slots"`
	Available    int64  `json:"available"`
	Occupied     int64  `json:"occupied"`
}

// StatisticsForOwner computes per-facility booking and occupancy
// aggregates across all facilities owned by the user. Facilities
// with zero bookings still appear with their slot counts.
func (r *ReportRepo) StatisticsForOwner(ctx context.Context, ownerID uint64) ([]FacilityStats, error) {
	const slotQ = `SELECT f.id, f.name,
	                      COUNT(s.id),
	                      COALESCE(SUM(s.status = 'AVAILABLE'), 0),
	                      COALESCE(SUM(s.status = 'OCCUPIED'), 0)
	               FROM facilities f
	               LEFT JOIN slots s ON s.facility_id = f.id
	               WHERE f.owner_id = ?
	               GROUP BY f.id, f.name
	               ORDER BY f.name`
	rows, err := r.db.QueryContext(ctx, slotQ, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]FacilityStats, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var st FacilityStats
		if err := rows.Scan(&st.FacilityID, &st.FacilityName, &st.TotalSlots, &st.Available, &st.Occupied); err != nil {
			return nil, err
		}
		index[st.FacilityID] = len(stats)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fold booking rows into the facility entries. Amounts are
	// recomputed in Go so rounding matches the display path.
	const bookQ = `SELECT f.id, b.start_time, b.end_time, b.status, f.price_per_hour
	               FROM bookings b
	               JOIN slots s      ON s.id = b.slot_id
	               JOIN facilities f ON f.id = s.facility_id
	               WHERE f.owner_id = ?`
	brows, err := r.db.QueryContext(ctx, bookQ, ownerID)
	if err != nil {
		return nil, err
	}
	defer brows.Close()
	for brows.Next() {
		var fid uint64
		var start, end time.Time
		var status string
		var price int64
		if err := brows.Scan(&fid, &start, &end, &status, &price); err != nil {
			return nil, err
		}
		idx, ok := index[fid]
		if !ok {
			continue
		}
		stats[idx].Bookings++
		if status == "active" {
			stats[idx].Active++
		} else {
			stats[idx].Completed++
		}
		stats[idx].Revenue += utils.BookingAmount(start, end, price)
	}
	if err := brows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
