package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/model"
	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// SlotDashboard handles GET /v1/owner/slots. Every slot across the
// owner's facilities is returned grouped facility → basement, each
// group with its own occupancy counts.
func (h *OwnerHandler) SlotDashboard(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Slots.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	type basementGroup struct {
		Basement  string     `json:"basement"`
		Total     int64      `json:"total"`
		Available int64      `json:"available"`
		Occupied  int64      `json:"occupied"`
		Slots     []slotView `json:"slots"`
	}
	type facilityGroup struct {
		FacilityID   uint64           `json:"facility_id"`
		FacilityName string           `json:"facility_name"`
		Basements    []*basementGroup `json:"basements"`
	}

	facilities := make([]*facilityGroup, 0)
	fIndex := make(map[uint64]*facilityGroup)
	for _, row := range rows {
		fg, ok := fIndex[row.FacilityID]
		if !ok {
			fg = &facilityGroup{FacilityID: row.FacilityID, FacilityName: row.FacilityName}
			fIndex[row.FacilityID] = fg
			facilities = append(facilities, fg)
		}
		var bg *basementGroup
		for _, g := range fg.Basements {
			if g.Basement == row.BasementLabel {
				bg = g
				break
			}
		}
		if bg == nil {
			bg = &basementGroup{Basement: row.BasementLabel, Slots: make([]slotView, 0)}
			fg.Basements = append(fg.Basements, bg)
		}
		bg.Total++
		if row.Status == model.SlotAvailable {
			bg.Available++
		} else {
			bg.Occupied++
		}
		bg.Slots = append(bg.Slots, slotView{ID: row.ID, SlotLabel: row.SlotLabel, Status: row.Status})
	}

	return c.JSON(http.StatusOK, echo.Map{"facilities": facilities})
}

type toggleSlotReq struct {
	Status string `json:"status"` // AVAILABLE | OCCUPIED
}

// ToggleSlot handles PATCH /v1/owner/slots/:id, the manual occupancy
// override for walk-in vehicles. Flipping to AVAILABLE is refused
// while an active booking covers the current instant, so a paying
// renter can never lose their space to the toggle.
func (h *OwnerHandler) ToggleSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	var req toggleSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.SlotAvailable && status != model.SlotOccupied {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be AVAILABLE or OCCUPIED"})
	}

	ctx := c.Request().Context()
	if _, err := h.Slots.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
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

	locked, err := h.Slots.LockByIDTx(ctx, tx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if status == model.SlotAvailable {
		// Re-check the guard under the row lock.
		now := time.Now().UTC()
		covered, err := h.Bookings.HasOverlapTx(ctx, tx, id, now, now.Add(time.Second))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if covered {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "slot has an active booking right now",
				"kind":  "active_booking",
			})
		}
	}
	if locked.Status != status {
		if err := h.Slots.UpdateStatusTx(ctx, tx, id, status, locked.Version); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "slot was modified concurrently", "kind": "conflict"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update slot"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
