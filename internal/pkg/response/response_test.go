package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(45), p.TotalRecords)
	assert.Equal(t, 20, p.PerPage)

	exact := NewPagination(1, 10, 30)
	assert.Equal(t, 3, exact.TotalPages)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestEnvelopeShapes(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return OK(c, fiber.StatusOK, "loaded", fiber.Map{"value": 1})
	})
	app.Get("/list", func(c *fiber.Ctx) error {
		return OKPaginated(c, fiber.StatusOK, "listed", []int{1, 2}, NewPagination(1, 2, 5))
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return Fail(c, fiber.StatusNotFound, "missing")
	})

	decode := func(path string, wantStatus int) map[string]interface{} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		require.Equal(t, wantStatus, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &out))
		return out
	}

	ok := decode("/ok", fiber.StatusOK)
	assert.Equal(t, true, ok["success"])
	assert.Equal(t, "loaded", ok["message"])
	assert.NotContains(t, ok, "pagination")

	list := decode("/list", fiber.StatusOK)
	assert.Equal(t, true, list["success"])
	require.Contains(t, list, "pagination")
	pg := list["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pg["total_pages"])

	fail := decode("/fail", fiber.StatusNotFound)
	assert.Equal(t, false, fail["success"])
	assert.Equal(t, "missing", fail["message"])
}
