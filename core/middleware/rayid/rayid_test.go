package rayid_test

import (
	"net/http/httptest"
	"testing"

	"entity-store/core/logger"
	"entity-store/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(logger.RayIDLocal).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(rayid.Header), 36)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(rayid.Header, "client-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-id", resp.Header.Get(rayid.Header))
}
