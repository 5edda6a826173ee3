package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkease/parking-slot-reservation/internal/repository"
)

// The reservation transaction runs against a mocked driver here; the
// SQL itself is only exercised against a real MySQL in integration
// environments.
func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingHandler(
		repository.NewSlotRepo(db),
		repository.NewBookingRepo(db),
		repository.NewFacilityRepo(db),
		repository.NewProfileRepo(db),
		zerolog.Nop(),
	), mock
}

func postBooking(h *BookingHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	_ = h.CreateBooking(c)
	return rec
}

func slotRows(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "facility_id", "basement_label", "slot_label", "status", "version", "created_at", "updated_at",
	}).AddRow(1, 2, "B1", "B1-1", status, 3, now, now)
}

func facilityRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "city_id", "name", "address", "latitude", "longitude",
		"price_per_hour", "total_basements", "contact", "created_at", "updated_at",
	}).AddRow(2, 5, 1, "Center Park", "MG Road", 18.52, 73.85, 80, 2, nil, now, now)
}

func existsRows(v int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"ex"}).AddRow(v)
}

func TestCreateBookingWindowValidation(t *testing.T) {
	h, mock := newBookingHandler(t)

	cases := []struct {
		name string
		body string
		kind string
	}{
		{
			"time without a colon",
			`{"slot_id":1,"vehicle_number":"MH12AB1234","date":"2099-01-01","start_time":"0900","end_time":"11:00"}`,
			"invalid_format",
		},
		{
			"date in the wrong order",
			`{"slot_id":1,"vehicle_number":"MH12AB1234","date":"01-01-2099","start_time":"09:00","end_time":"11:00"}`,
			"invalid_date",
		},
		{
			"end equal to start",
			`{"slot_id":1,"vehicle_number":"MH12AB1234","date":"2099-01-01","start_time":"11:00","end_time":"11:00"}`,
			"invalid_interval",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postBooking(h, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.kind)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet(), "rejected windows must never reach the database")
}

func TestCreateBookingSlotConflict(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery(`FROM slots WHERE id = \?`).WillReturnRows(slotRows("AVAILABLE"))
	mock.ExpectQuery(`FROM facilities WHERE id = \?`).WillReturnRows(facilityRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(slotRows("AVAILABLE"))
	mock.ExpectExec(`UPDATE bookings SET status = 'completed'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(0)) // nothing covers now
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(1)) // requested window already taken
	mock.ExpectRollback()

	rec := postBooking(h, `{"slot_id":1,"vehicle_number":"MH12AB1234","date":"2099-01-01","start_time":"09:00","end_time":"11:00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot_conflict")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingFutureWindow(t *testing.T) {
	h, mock := newBookingHandler(t)

	start := time.Date(2099, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectQuery(`FROM slots WHERE id = \?`).WillReturnRows(slotRows("AVAILABLE"))
	mock.ExpectQuery(`FROM facilities WHERE id = \?`).WillReturnRows(facilityRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(slotRows("AVAILABLE"))
	mock.ExpectExec(`UPDATE bookings SET status = 'completed'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(0))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "slot_id", "user_id", "vehicle_number", "start_time", "end_time", "status", "created_at"}).
			AddRow(11, 1, 7, "MH12AB1234", start, end, "active", time.Now().UTC()))
	mock.ExpectCommit()

	rec := postBooking(h, `{"slot_id":1,"vehicle_number":"MH12AB1234","date":"2099-01-01","start_time":"09:00","end_time":"11:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 11, resp["id"])
	assert.EqualValues(t, 2.0, resp["duration_hours"])
	assert.EqualValues(t, 160, resp["amount"])
	assert.NoError(t, mock.ExpectationsWereMet(), "a window that does not cover now must leave slot status alone")
}

// coveringWindowBody builds a request whose window spans the current
// instant on today's date.
func coveringWindowBody(t *testing.T) string {
	t.Helper()
	now := time.Now().UTC()
	if now.Hour() == 23 && now.Minute() >= 58 {
		t.Skip("a same-day covering window would cross midnight")
	}
	return fmt.Sprintf(
		`{"slot_id":1,"vehicle_number":"MH12AB1234","date":"%s","start_time":"00:00","end_time":"23:59"}`,
		now.Format("2006-01-02"))
}

func TestCreateBookingManuallyOccupiedSlot(t *testing.T) {
	h, mock := newBookingHandler(t)

	// OCCUPIED with no covering booking and nothing settled: the owner
	// blocked the slot by hand, so a window covering now must lose.
	mock.ExpectQuery(`FROM slots WHERE id = \?`).WillReturnRows(slotRows("OCCUPIED"))
	mock.ExpectQuery(`FROM facilities WHERE id = \?`).WillReturnRows(facilityRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(slotRows("OCCUPIED"))
	mock.ExpectExec(`UPDATE bookings SET status = 'completed'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(0))
	mock.ExpectRollback()

	rec := postBooking(h, coveringWindowBody(t))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot_conflict")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingFutureWindowKeepsManualHold(t *testing.T) {
	h, mock := newBookingHandler(t)

	start := time.Date(2099, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectQuery(`FROM slots WHERE id = \?`).WillReturnRows(slotRows("OCCUPIED"))
	mock.ExpectQuery(`FROM facilities WHERE id = \?`).WillReturnRows(facilityRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(slotRows("OCCUPIED"))
	mock.ExpectExec(`UPDATE bookings SET status = 'completed'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(0))
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(existsRows(0))
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "slot_id", "user_id", "vehicle_number", "start_time", "end_time", "status", "created_at"}).
			AddRow(12, 1, 7, "MH12AB1234", start, end, "active", time.Now().UTC()))
	mock.ExpectCommit()

	rec := postBooking(h, `{"slot_id":1,"vehicle_number":"MH12AB1234","date":"2099-01-01","start_time":"09:00","end_time":"11:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "a future booking must not flip a manually occupied slot back to AVAILABLE")
}
