package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIfAffordable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewRewardRepo(db)

	t.Run("affordable spend inserts and populates the id", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO reward_redemptions`).
			WithArgs(7, "conversion", 100, 10, "", 7, 50, 7, 100).
			WillReturnResult(sqlmock.NewResult(5, 1))

		rec := &RedemptionRecord{UserID: 7, Kind: "conversion", PointsSpent: 100, CashAmount: 10}
		require.NoError(t, repo.CreateIfAffordable(context.Background(), rec, 50))
		assert.EqualValues(t, 5, rec.ID)
	})

	t.Run("short balance reports ErrInsufficientPoints", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO reward_redemptions`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		rec := &RedemptionRecord{UserID: 7, Kind: "redemption", PointsSpent: 5000, Code: "CODE-ABCDEF123"}
		err := repo.CreateIfAffordable(context.Background(), rec, 50)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Zero(t, rec.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
