package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/parkease/parking-slot-reservation/internal/metrics"
	"github.com/parkease/parking-slot-reservation/internal/model"
	"github.com/parkease/parking-slot-reservation/internal/queue"
	"github.com/parkease/parking-slot-reservation/internal/repository"
	"github.com/parkease/parking-slot-reservation/internal/service"
	"github.com/parkease/parking-slot-reservation/internal/utils"
)

// BookingHandler serves the renter booking endpoints. CreateBooking
// runs the whole reservation inside one transaction so that two
// renters racing for the same slot and overlapping window can never
// both win.
type BookingHandler struct {
	Slots      *repository.SlotRepo
	Bookings   *repository.BookingRepo
	Facilities *repository.FacilityRepo
	Profiles   *repository.ProfileRepo
	Log        zerolog.Logger
}

func NewBookingHandler(s *repository.SlotRepo, b *repository.BookingRepo, f *repository.FacilityRepo, p *repository.ProfileRepo, log zerolog.Logger) *BookingHandler {
	if s == nil || b == nil || f == nil || p == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Slots: s, Bookings: b, Facilities: f, Profiles: p, Log: log}
}

type createBookingReq struct {
	SlotID        uint64 `json:"slot_id"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM, 24-hour
	EndTime       string `json:"end_time"`   // HH:MM, 24-hour
	VehicleNumber string `json:"vehicle_number"`
}

// CreateBooking handles POST /v1/bookings. The requested window is
// validated, then the slot row is locked, expired bookings on it are
// completed, the window is checked against remaining active bookings
// and the new booking is inserted. A losing writer gets 409 with a
// slot_conflict kind.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot_id is required"})
	}

	start, end, err := utils.ParseBookingWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		kind := "invalid_format"
		if errors.Is(err, utils.ErrInvalidInterval) {
			kind = "invalid_interval"
		} else if errors.Is(err, utils.ErrInvalidDate) {
			kind = "invalid_date"
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "kind": kind})
	}

	ctx := c.Request().Context()

	vehicle := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if vehicle == "" {
		// Fall back to the vehicle stored on the renter's profile.
		if p, err := h.Profiles.GetByID(ctx, userID); err == nil && p.VehicleNumber.Valid {
			vehicle = p.VehicleNumber.String
		}
	}
	if vehicle == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_number is required"})
	}

	slot, err := h.Slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	fac, err := h.Facilities.GetByID(ctx, slot.FacilityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.Slots.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The FOR UPDATE lock serializes concurrent writers on this slot
	// until commit; every check below runs under it.
	locked, err := h.Slots.LockByIDTx(ctx, tx, req.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	settled, err := h.Bookings.CompleteExpiredTx(ctx, tx, req.SlotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle expired bookings"})
	}

	// Occupancy reflects "an active booking or a manual owner hold
	// covers the current instant". Passing [now, now+1s) to the overlap
	// predicate turns it into exactly that test. OCCUPIED with
	// no covering booking and nothing just settled means the owner
	// blocked the slot by hand; that hold is never flipped here, and a
	// window covering now loses against it.
	now := time.Now().UTC()
	coveredNow, err := h.Bookings.HasOverlapTx(ctx, tx, req.SlotID, now, now.Add(time.Second))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check occupancy"})
	}
	manualHold := locked.Status == model.SlotOccupied && !coveredNow && settled == 0
	newCoversNow := !now.Before(start) && now.Before(end)
	if manualHold && newCoversNow {
		metrics.IncBookingConflict()
		return c.JSON(http.StatusConflict, echo.Map{
			"error": repository.ErrSlotConflict.Error(),
			"kind":  "slot_conflict",
		})
	}

	overlap, err := h.Bookings.HasOverlapTx(ctx, tx, req.SlotID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if overlap {
		metrics.IncBookingConflict()
		return c.JSON(http.StatusConflict, echo.Map{
			"error": repository.ErrSlotConflict.Error(),
			"kind":  "slot_conflict",
		})
	}

	rec := &repository.BookingRecord{
		SlotID:        req.SlotID,
		UserID:        userID,
		VehicleNumber: vehicle,
		StartTime:     start,
		EndTime:       end,
	}
	if err := h.Bookings.CreateTx(ctx, tx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	desired := model.SlotAvailable
	if coveredNow || newCoversNow || manualHold {
		desired = model.SlotOccupied
	}
	if desired != locked.Status {
		if err := h.Slots.UpdateStatusTx(ctx, tx, req.SlotID, desired, locked.Version); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				metrics.IncBookingConflict()
				return c.JSON(http.StatusConflict, echo.Map{
					"error": repository.ErrSlotConflict.Error(),
					"kind":  "slot_conflict",
				})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update slot"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	metrics.IncBookingCreated()

	hours := utils.DurationHours(start, end)
	amount := utils.BookingAmount(start, end, fac.PricePerHour)

	h.Log.Info().
		Uint64("booking_id", rec.ID).
		Uint64("slot_id", req.SlotID).
		Uint64("user_id", userID).
		Int64("amount", amount).
		Msg("booking created")

	ev := queue.BookingConfirmedEvent{
		BookingID:     rec.ID,
		UserID:        userID,
		SlotID:        slot.ID,
		SlotLabel:     slot.SlotLabel,
		BasementLabel: slot.BasementLabel,
		FacilityID:    fac.ID,
		FacilityName:  fac.Name,
		VehicleNumber: vehicle,
		StartTime:     start.Format(time.RFC3339),
		EndTime:       end.Format(time.RFC3339),
		DurationHours: hours,
		Amount:        amount,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = service.PublishBookingConfirmed(pubCtx, h.Log, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"id":             rec.ID,
		"slot_id":        slot.ID,
		"slot_label":     slot.SlotLabel,
		"basement_label": slot.BasementLabel,
		"facility_id":    fac.ID,
		"facility_name":  fac.Name,
		"vehicle_number": vehicle,
		"start_time":     start.Format(time.RFC3339),
		"end_time":       end.Format(time.RFC3339),
		"status":         rec.Status,
		"duration_hours": hours,
		"amount":         amount,
	})
}

// MyBookings handles GET /v1/bookings and lists the renter's
// bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// GetBooking handles GET /v1/bookings/:id. Renters can only see
// their own bookings.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	d, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, d)
}
