package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// ReportHandler serves the owner reporting views: booking history,
// per-facility statistics and spreadsheet export.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler {
	if r == nil {
		panic("nil repository passed to NewReportHandler")
	}
	return &ReportHandler{Reports: r}
}

// reportQuery parses the shared filter parameters. The "to" bound is
// inclusive of its calendar day, so a day is added before the
// repository's exclusive comparison.
func reportQuery(c echo.Context) (repository.BookingReportQuery, error) {
	var q repository.BookingReportQuery
	q.Status = c.QueryParam("status")
	if v := c.QueryParam("facility_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return q, fmt.Errorf("invalid facility_id")
		}
		q.FacilityID = id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return q, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
		}
		q.From = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return q, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
		}
		q.To = t.Add(24 * time.Hour)
	}
	return q, nil
}

// History handles GET /v1/owner/reports/bookings.
func (h *ReportHandler) History(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	q, err := reportQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rows, err := h.Reports.ListForOwner(c.Request().Context(), ownerID, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": rows, "count": len(rows)})
}

// Statistics handles GET /v1/owner/reports/statistics.
func (h *ReportHandler) Statistics(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	stats, err := h.Reports.StatisticsForOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": stats})
}

var reportHeader = []string{
	"Booking ID", "Facility", "Basement", "Slot", "Renter", "Email",
	"Vehicle", "Start (UTC)", "End (UTC)", "Hours", "Amount", "Status",
}

// ExportXLSX handles GET /v1/owner/reports/bookings/export and
// streams the filtered history as an .xlsx workbook.
func (h *ReportHandler) ExportXLSX(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	q, err := reportQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rows, err := h.Reports.ListForOwner(c.Request().Context(), ownerID, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for i, row := range rows {
		values := []interface{}{
			row.ID, row.FacilityName, row.BasementLabel, row.SlotLabel,
			row.RenterName, row.RenterEmail, row.VehicleNumber,
			row.StartTime.Format("2006-01-02 15:04"),
			row.EndTime.Format("2006-01-02 15:04"),
			row.DurationHours, row.Amount, row.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build workbook"})
	}
	name := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
