package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/parkease/parking-slot-reservation/internal/model"
	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated catalog: cities,
// facilities per city, facility detail and search. These routes sit
// behind the response cache.
type PublicHandler struct {
	Cities     *repository.CityRepo
	Facilities *repository.FacilityRepo
	Slots      *repository.SlotRepo
}

func NewPublicHandler(c *repository.CityRepo, f *repository.FacilityRepo, s *repository.SlotRepo) *PublicHandler {
	if c == nil || f == nil || s == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Cities: c, Facilities: f, Slots: s}
}

// ListCities handles GET /v1/cities.
func (h *PublicHandler) ListCities(c echo.Context) error {
	cities, err := h.Cities.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]echo.Map, 0, len(cities))
	for _, city := range cities {
		items = append(items, echo.Map{"id": city.ID, "name": city.Name, "state": city.State})
	}
	return c.JSON(http.StatusOK, echo.Map{"cities": items})
}

// FacilitiesByCity handles GET /v1/cities/:id/facilities.
func (h *PublicHandler) FacilitiesByCity(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Cities.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "city not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	facs, err := h.Facilities.ListByCity(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]echo.Map, 0, len(facs))
	for _, f := range facs {
		items = append(items, echo.Map{
			"id":             f.ID,
			"name":           f.Name,
			"address":        f.Address,
			"latitude":       f.Latitude,
			"longitude":      f.Longitude,
			"price_per_hour": f.PricePerHour,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": items})
}

// FacilityDetail handles GET /v1/facilities/:id and includes slot
// occupancy counts alongside the listing fields.
func (h *PublicHandler) FacilityDetail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
	}
	ctx := c.Request().Context()
	f, err := h.Facilities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFacilityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	slots, err := h.Slots.ListByFacility(ctx, id, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var available int64
	for _, s := range slots {
		if s.Status == model.SlotAvailable {
			available++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":              f.ID,
		"name":            f.Name,
		"address":         f.Address,
		"city_id":         f.CityID,
		"latitude":        f.Latitude,
		"longitude":       f.Longitude,
		"price_per_hour":  f.PricePerHour,
		"total_basements": f.TotalBasements,
		"contact":         f.Contact.String,
		"total_slots":     len(slots),
		"available":       available,
	})
}

// SearchFacilities handles GET /v1/facilities/search with optional
// name, city and max_price filters plus pagination.
func (h *PublicHandler) SearchFacilities(c echo.Context) error {
	q := repository.FacilitySearchQuery{
		Name:     c.QueryParam("name"),
		City:     c.QueryParam("city"),
		Page:     1,
		PageSize: 20,
	}
	if v := c.QueryParam("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		q.MaxPrice = n
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Page = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.PageSize = n
		}
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}

	rows, total, err := h.Facilities.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"facilities": rows,
		"total":      total,
		"page":       q.Page,
		"page_size":  q.PageSize,
	})
}
