package model

import "time"

// Booking status values.  A booking is created active and moves to
// completed once its end time has passed; it is never deleted.
const (
	BookingActive    = "active"
	BookingCompleted = "completed"
)

// Booking records a renter's reservation of one slot for a bounded
// time interval.  Start and end are stored as UTC timestamps; the
// invariant end > start is validated before insertion and rows are
// immutable afterwards except for the active→completed transition.
//
// Fields:
//  ID            – primary key identifier.
//  SlotID        – slot being reserved.
//  UserID        – renter who made the booking.
//  VehicleNumber – registration plate of the parked vehicle.
//  StartTime     – interval start (inclusive), UTC.
//  EndTime       – interval end (exclusive), UTC.
//  Status        – active or completed.
//  CreatedAt     – creation timestamp.
type Booking struct {
	ID            uint64    // bookings.id
	SlotID        uint64    // bookings.slot_id
	UserID        uint64    // bookings.user_id
	VehicleNumber string    // bookings.vehicle_number
	StartTime     time.Time // bookings.start_time
	EndTime       time.Time // bookings.end_time
	Status        string    // bookings.status
	CreatedAt     time.Time // bookings.created_at
}

// Overlaps reports whether the half-open intervals [aStart, aEnd)
// and [bStart, bEnd) intersect.  Touching intervals do not overlap,
// so back-to-back bookings on the same slot are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
