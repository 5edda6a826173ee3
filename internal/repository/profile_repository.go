package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Profile mirrors the 'profiles' table. The row shares its ID with
// the users table; it exists so reporting can show renter contact
// details without touching credentials.
type Profile struct {
	ID            uint64
	FullName      string
	Email         string
	Phone         sql.NullString
	VehicleNumber sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ErrProfileNotFound is returned when no profile row exists for a user.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Upsert creates or refreshes the profile row for a user. Called at
// registration and whenever the user updates contact details.
func (r *ProfileRepo) Upsert(ctx context.Context, p *Profile) error {
	const q = `INSERT INTO profiles (id, full_name, email, phone, vehicle_number)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             full_name = VALUES(full_name), email = VALUES(email),
	             phone = VALUES(phone), vehicle_number = VALUES(vehicle_number),
	             updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.FullName, p.Email, p.Phone, p.VehicleNumber)
	return err
}

// GetByID fetches a profile by user id.
func (r *ProfileRepo) GetByID(ctx context.Context, id uint64) (*Profile, error) {
	const q = `SELECT id, full_name, email, phone, vehicle_number, created_at, updated_at
	           FROM profiles WHERE id = ?`
	var p Profile
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.VehicleNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}
