package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/model"
	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// AvailabilityHandler serves the public availability view. The
// response is always a fresh read of the slot registry and is never
// routed through the response cache.
type AvailabilityHandler struct {
	Facilities *repository.FacilityRepo
	Slots      *repository.SlotRepo
}

func NewAvailabilityHandler(f *repository.FacilityRepo, s *repository.SlotRepo) *AvailabilityHandler {
	if f == nil || s == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Facilities: f, Slots: s}
}

type slotView struct {
	ID        uint64 `json:"id"`
	SlotLabel string `json:"slot_label"`
	Status    string `json:"status"`
}

type basementView struct {
	Basement  string     `json:"basement"`
	Total     int64      `json:"total"`
	Available int64      `json:"available"`
	Occupied  int64      `json:"occupied"`
	Slots     []slotView `json:"slots"`
}

// Availability handles GET /v1/facilities/:id/availability. Slots
// are grouped by basement level, each group carrying its own
// {total, available, occupied} aggregate plus an overall one. An
// optional ?basement= query restricts the view to one level. A
// facility with zero slots yields 200 with empty groups, not 404.
func (h *AvailabilityHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	ctx := c.Request().Context()
	fac, err := h.Facilities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	slots, err := h.Slots.ListByFacility(ctx, id, c.QueryParam("basement"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	groups := make([]basementView, 0)
	index := make(map[string]int)
	var total, available, occupied int64
	for _, s := range slots {
		gi, ok := index[s.BasementLabel]
		if !ok {
			gi = len(groups)
			index[s.BasementLabel] = gi
			groups = append(groups, basementView{Basement: s.BasementLabel, Slots: make([]slotView, 0)})
		}
		g := &groups[gi]
		g.Total++
		total++
		if s.Status == model.SlotAvailable {
			g.Available++
			available++
		} else {
			g.Occupied++
			occupied++
		}
		g.Slots = append(g.Slots, slotView{ID: s.ID, SlotLabel: s.SlotLabel, Status: s.Status})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"facility_id":    fac.ID,
		"facility_name":  fac.Name,
		"price_per_hour": fac.PricePerHour,
		"total":          total,
		"available":      available,
		"occupied":       occupied,
		"basements":      groups,
	})
}
