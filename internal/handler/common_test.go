package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWithUserID(v interface{}) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user_id", v)
	return c
}

func TestGetUserID(t *testing.T) {
	t.Run("accepts the numeric representations a JWT can produce", func(t *testing.T) {
		for _, v := range []interface{}{uint64(7), int(7), int64(7), float64(7), "7"} {
			id, err := getUserID(ctxWithUserID(v))
			require.NoError(t, err)
			assert.Equal(t, uint64(7), id)
		}
	})

	t.Run("rejects missing or garbage values", func(t *testing.T) {
		for _, v := range []interface{}{nil, "abc", true, []int{1}} {
			_, err := getUserID(ctxWithUserID(v))
			assert.Error(t, err)
		}
	})
}

func TestSlotLabels(t *testing.T) {
	assert.Equal(t, "B1", basementLabel(1))
	assert.Equal(t, "B3", basementLabel(3))
	assert.Equal(t, "B1-7", slotLabel(1, 7))
	assert.Equal(t, "B2-15", slotLabel(2, 15))
}

func TestRedemptionCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := redemptionCode()
		require.True(t, strings.HasPrefix(code, "CODE-"))
		require.Len(t, code, len("CODE-")+9)
		assert.Equal(t, strings.ToUpper(code), code)
		assert.False(t, seen[code], "codes must not repeat")
		seen[code] = true
	}
}

func TestNullable(t *testing.T) {
	assert.False(t, nullable("").Valid)
	assert.False(t, nullable("   ").Valid)
	v := nullable("MH12AB1234")
	assert.True(t, v.Valid)
	assert.Equal(t, "MH12AB1234", v.String)
}
