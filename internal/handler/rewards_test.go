package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// Request validation runs before any repository call, so these cases
// exercise the handler with zero-value repos.
func postRewards(t *testing.T, h *RewardHandler, fn echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	require.NoError(t, fn(c))
	return rec
}

func TestConvertValidation(t *testing.T) {
	h := NewRewardHandler(&repository.BookingRepo{}, &repository.RewardRepo{})

	t.Run("below the minimum is rejected", func(t *testing.T) {
		rec := postRewards(t, h, h.Convert, `{"points":99}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "minimum 100 points")
	})

	t.Run("non-multiple of ten is rejected", func(t *testing.T) {
		rec := postRewards(t, h, h.Convert, `{"points":105}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "multiple of 10")
	})
}

func TestRedeemValidation(t *testing.T) {
	h := NewRewardHandler(&repository.BookingRepo{}, &repository.RewardRepo{})

	rec := postRewards(t, h, h.Redeem, `{"tier":"diamond"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown tier")
}

func TestRewardTiers(t *testing.T) {
	assert.Equal(t, int64(5000), rewardTiers["platinum"])
	assert.Equal(t, int64(3000), rewardTiers["gold"])
	assert.Equal(t, int64(2000), rewardTiers["silver"])
}
