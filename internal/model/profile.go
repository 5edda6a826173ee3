package model

import "time"

// Profile is the denormalized contact record for a user, keyed by
// the same identity as the users table.  Reporting views join
// against it for display and must tolerate a missing row.
type Profile struct {
	ID            uint64    // profiles.id (= users.id)
	FullName      string    // profiles.full_name
	Email         string    // profiles.email
	Phone         *string   // profiles.phone (nullable)
	VehicleNumber *string   // profiles.vehicle_number (nullable)
	CreatedAt     time.Time // profiles.created_at
	UpdatedAt     time.Time // profiles.updated_at
}
