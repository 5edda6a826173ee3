package model

import "time"

// Slot status values.  A slot carries exactly one status at any
// time; it reflects the current occupancy, not a reserved interval.
// Interval correctness is enforced on the booking write path.
const (
	SlotAvailable = "AVAILABLE"
	SlotOccupied  = "OCCUPIED"
)

// Slot describes one physical parking space inside a facility.
// Slots are identified by their basement label and slot label
// (e.g. basement "B2", slot "B2-14").  The version column is
// bumped on every status change and used as an optimistic check
// when flipping status inside a booking transaction.
//
// Fields:
//  ID            – primary key identifier.
//  FacilityID    – facility this slot belongs to.
//  BasementLabel – basement level, e.g. "B1".
//  SlotLabel     – label shown to renters, e.g. "B1-7".
//  Status        – AVAILABLE or OCCUPIED.
//  Version       – optimistic lock counter.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Slot struct {
	ID            uint64    // slots.id
	FacilityID    uint64    // slots.facility_id
	BasementLabel string    // slots.basement_label
	SlotLabel     string    // slots.slot_label
	Status        string    // slots.status
	Version       uint32    // slots.version
	CreatedAt     time.Time // slots.created_at
	UpdatedAt     time.Time // slots.updated_at
}
