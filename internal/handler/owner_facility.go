package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/model"
	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// OwnerHandler bundles repositories for owners to manage their
// facility listings and slot inventory.
type OwnerHandler struct {
	Facilities *repository.FacilityRepo
	Slots      *repository.SlotRepo
	Cities     *repository.CityRepo
	Bookings   *repository.BookingRepo
}

// NewOwnerHandler constructs an OwnerHandler and panics if any
// dependency is nil.
func NewOwnerHandler(f *repository.FacilityRepo, s *repository.SlotRepo, c *repository.CityRepo, b *repository.BookingRepo) *OwnerHandler {
	if f == nil || s == nil || c == nil || b == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{Facilities: f, Slots: s, Cities: c, Bookings: b}
}

type createFacilityReq struct {
	CityID           uint64  `json:"city_id"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	PricePerHour     int64   `json:"price_per_hour"`
	TotalBasements   int     `json:"total_basements"`
	SlotsPerBasement int     `json:"slots_per_basement"`
	Contact          string  `json:"contact"`
}

// CreateFacility handles POST /v1/owner/facilities. The facility row
// and its full slot inventory are inserted in one transaction: the
// declared capacity is expanded into one slot row per space, labeled
// "B<basement>-<number>", all starting AVAILABLE.
func (h *OwnerHandler) CreateFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createFacilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	switch {
	case req.Name == "" || req.Address == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	case req.CityID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city_id is required"})
	case req.PricePerHour <= 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_hour must be positive"})
	case req.TotalBasements < 1 || req.TotalBasements > 10:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_basements must be between 1 and 10"})
	case req.SlotsPerBasement < 1 || req.SlotsPerBasement > 500:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slots_per_basement must be between 1 and 500"})
	}

	ctx := c.Request().Context()
	if _, err := h.Cities.GetByID(ctx, req.CityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown city"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.Facilities.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	fac := &repository.Facility{
		OwnerID:        ownerID,
		CityID:         req.CityID,
		Name:           req.Name,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		PricePerHour:   req.PricePerHour,
		TotalBasements: uint32(req.TotalBasements),
		Contact:        nullable(req.Contact),
	}
	if err := h.Facilities.CreateTx(ctx, tx, fac); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create facility"})
	}

	slots := make([]repository.Slot, 0, req.TotalBasements*req.SlotsPerBasement)
	for b := 1; b <= req.TotalBasements; b++ {
		for n := 1; n <= req.SlotsPerBasement; n++ {
			slots = append(slots, repository.Slot{
				FacilityID:    fac.ID,
				BasementLabel: basementLabel(b),
				SlotLabel:     slotLabel(b, n),
				Status:        model.SlotAvailable,
			})
		}
	}
	if err := h.Slots.CreateBulkTx(ctx, tx, slots); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create slots"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":              fac.ID,
		"name":            fac.Name,
		"address":         fac.Address,
		"city_id":         fac.CityID,
		"price_per_hour":  fac.PricePerHour,
		"total_basements": fac.TotalBasements,
		"total_slots":     len(slots),
	})
}

// ListFacilities handles GET /v1/owner/facilities, returning the
// owner's listings with per-facility slot aggregates.
func (h *OwnerHandler) ListFacilities(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	facs, err := h.Facilities.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	counts, err := h.Slots.CountByFacility(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	items := make([]echo.Map, 0, len(facs))
	for _, f := range facs {
		agg := counts[f.ID]
		items = append(items, echo.Map{
			"id":              f.ID,
			"name":            f.Name,
			"address":         f.Address,
			"city_id":         f.CityID,
			"latitude":        f.Latitude,
			"longitude":       f.Longitude,
			"price_per_hour":  f.PricePerHour,
			"total_basements": f.TotalBasements,
			"contact":         f.Contact.String,
			"total_slots":     agg[0],
			"available":       agg[1],
			"occupied":        agg[2],
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": items})
}

type updateFacilityReq struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	PricePerHour int64  `json:"price_per_hour"`
	Contact      string `json:"contact"`
}

// UpdateFacility handles PUT /v1/owner/facilities/:id. Only listing
// fields are mutable; capacity is fixed once the slots exist.
func (h *OwnerHandler) UpdateFacility(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	var req updateFacilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}
	if req.PricePerHour <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_hour must be positive"})
	}

	ctx := c.Request().Context()
	err = h.Facilities.UpdateByIDAndOwner(ctx, id, ownerID, req.Name, req.Address, req.PricePerHour, nullable(req.Contact))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update facility"})
	}
	f, err := h.Facilities.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             f.ID,
		"name":           f.Name,
		"address":        f.Address,
		"price_per_hour": f.PricePerHour,
		"contact":        f.Contact.String,
	})
}
