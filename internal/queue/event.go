// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published after a booking commits. It
// carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	UserID        uint64  `json:"user_id"`
	SlotID        uint64  `json:"slot_id"`
	SlotLabel     string  `json:"slot_label"`
	BasementLabel string  `json:"basement_label"`
	FacilityID    uint64  `json:"facility_id"`
	FacilityName  string  `json:"facility_name"`
	VehicleNumber string  `json:"vehicle_number"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
	Amount        int64   `json:"amount"`
	ConfirmedAt   string  `json:"confirmed_at"`
}
