package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrInsufficientPoints is returned when a conditional redemption
// insert finds the user's balance short of the requested spend.
var ErrInsufficientPoints = errors.New("insufficient points")

// RedemptionRecord mirrors the reward_redemptions table. Every
// points conversion or reward redemption appends one row, so spent
// points are derived from the ledger instead of client state.
type RedemptionRecord struct {
	ID          uint64
	UserID      uint64
	Kind        string // "conversion" | "redemption"
	PointsSpent int64
	CashAmount  int64  // rupees credited for conversions, 0 otherwise
	Code        string // redemption code, empty for conversions
	CreatedAt   time.Time
}

// RewardRepo tracks spent reward points.
type RewardRepo struct{ db *sql.DB }

// NewRewardRepo returns a new RewardRepo bound to the given database.
func NewRewardRepo(db *sql.DB) *RewardRepo { return &RewardRepo{db: db} }

// SpentPoints sums all points the user has converted or redeemed.
func (r *RewardRepo) SpentPoints(ctx context.Context, userID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(points_spent), 0) FROM reward_redemptions WHERE user_id = ?`
	var n int64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

// CreateIfAffordable appends a redemption row only when the user's
// earned-minus-spent balance still covers it. The guard lives inside
// the INSERT itself, so two concurrent spends re-sum the ledger on
// the server and cannot both pass a stale balance check. Earned
// points are the booking count times pointsPerBooking. Zero rows
// affected maps to ErrInsufficientPoints.
func (r *RewardRepo) CreateIfAffordable(ctx context.Context, rec *RedemptionRecord, pointsPerBooking int64) error {
	const q = `INSERT INTO reward_redemptions (user_id, kind, points_spent, cash_amount, code)
	           SELECT ?, ?, ?, ?, ?
	           FROM dual
	           WHERE (SELECT COUNT(*) FROM bookings WHERE user_id = ?) * ?
	                 - (SELECT COALESCE(SUM(points_spent), 0) FROM reward_redemptions WHERE user_id = ?)
	                 >= ?`
	res, err := r.db.ExecContext(ctx, q,
		rec.UserID, rec.Kind, rec.PointsSpent, rec.CashAmount, rec.Code,
		rec.UserID, pointsPerBooking, rec.UserID, rec.PointsSpent)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// ListByUser returns the user's redemption history, newest first.
func (r *RewardRepo) ListByUser(ctx context.Context, userID uint64) ([]RedemptionRecord, error) {
	const q = `SELECT id, user_id, kind, points_spent, cash_amount, code, created_at
	           FROM reward_redemptions WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RedemptionRecord
	for rows.Next() {
		var rec RedemptionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.PointsSpent, &rec.CashAmount, &rec.Code, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
