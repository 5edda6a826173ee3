package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// Points credited per completed or active booking, and the cash
// conversion ratio (points per rupee).
const (
	pointsPerBooking = 50
	pointsPerRupee   = 10
	minConvertPoints = 100
)

// rewardTiers maps the redeemable reward names to their point cost.
var rewardTiers = map[string]int64{
	"platinum": 5000,
	"gold":     3000,
	"silver":   2000,
}

// RewardHandler serves the renter loyalty endpoints. Earned points
// derive from the booking ledger; spent points from the redemption
// ledger. Nothing is stored client-side, so balances survive
// restarts and device changes.
type RewardHandler struct {
	Bookings *repository.BookingRepo
	Rewards  *repository.RewardRepo
}

func NewRewardHandler(b *repository.BookingRepo, r *repository.RewardRepo) *RewardHandler {
	if b == nil || r == nil {
		panic("nil repository passed to NewRewardHandler")
	}
	return &RewardHandler{Bookings: b, Rewards: r}
}

func (h *RewardHandler) balance(c echo.Context, userID uint64) (bookings, earned, spent int64, err error) {
	ctx := c.Request().Context()
	bookings, err = h.Bookings.CountByUser(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	spent, err = h.Rewards.SpentPoints(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	return bookings, bookings * pointsPerBooking, spent, nil
}

// Balance handles GET /v1/rewards.
func (h *RewardHandler) Balance(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, earned, spent, err := h.balance(c, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": bookings,
		"earned":   earned,
		"spent":    spent,
		"points":   earned - spent,
	})
}

// Convert handles POST /v1/rewards/convert, turning points into
// rupees at the fixed ratio. At least 100 points must be converted
// at once.
func (h *RewardHandler) Convert(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Points int64 `json:"points"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Points < minConvertPoints {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "minimum 100 points per conversion"})
	}
	if req.Points%pointsPerRupee != 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "points must be a multiple of 10"})
	}

	_, earned, spent, err := h.balance(c, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if earned-spent < req.Points {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient points"})
	}

	cash := req.Points / pointsPerRupee
	rec := &repository.RedemptionRecord{
		UserID:      userID,
		Kind:        "conversion",
		PointsSpent: req.Points,
		CashAmount:  cash,
	}
	// The insert re-checks affordability against the ledger, so a
	// concurrent spend that raced past the balance read above still
	// cannot overdraw.
	if err := h.Rewards.CreateIfAffordable(c.Request().Context(), rec, pointsPerBooking); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient points"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record conversion"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"points_spent": req.Points,
		"cash_amount":  cash,
		"points":       earned - spent - req.Points,
	})
}

// Redeem handles POST /v1/rewards/redeem, exchanging points for a
// reward tier and returning a one-time code.
func (h *RewardHandler) Redeem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Tier string `json:"tier"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tier := strings.ToLower(strings.TrimSpace(req.Tier))
	cost, ok := rewardTiers[tier]
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tier, expected platinum, gold or silver"})
	}

	_, earned, spent, err := h.balance(c, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if earned-spent < cost {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient points"})
	}

	code := redemptionCode()
	rec := &repository.RedemptionRecord{
		UserID:      userID,
		Kind:        "redemption",
		PointsSpent: cost,
		Code:        code,
	}
	if err := h.Rewards.CreateIfAffordable(c.Request().Context(), rec, pointsPerBooking); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient points"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record redemption"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tier":         tier,
		"points_spent": cost,
		"code":         code,
		"points":       earned - spent - cost,
	})
}

// History handles GET /v1/rewards/history.
func (h *RewardHandler) History(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	recs, err := h.Rewards.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]echo.Map, 0, len(recs))
	for _, r := range recs {
		items = append(items, echo.Map{
			"id":           r.ID,
			"kind":         r.Kind,
			"points_spent": r.PointsSpent,
			"cash_amount":  r.CashAmount,
			"code":         r.Code,
			"created_at":   r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"redemptions": items})
}

// redemptionCode builds a short human-readable code from a UUID.
func redemptionCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CODE-" + raw[:9]
}
