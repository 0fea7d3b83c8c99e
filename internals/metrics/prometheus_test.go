package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveVerdict_Outcomes(t *testing.T) {
	c := New()
	c.ObserveVerdict("validate", true, false)
	c.ObserveVerdict("validate", true, true)
	c.ObserveVerdict("validate", false, false)
	c.ObserveVerdict("assign", false, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.verdicts.WithLabelValues("validate", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verdicts.WithLabelValues("validate", OutcomeSoft)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verdicts.WithLabelValues("validate", OutcomeHard)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verdicts.WithLabelValues("assign", OutcomeHard)))
}

func TestObserveExport_Source(t *testing.T) {
	c := New()
	c.ObserveExport("pdf", false)
	c.ObserveExport("pdf", true)
	c.ObserveExport("pdf", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.exports.WithLabelValues("pdf", "live")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.exports.WithLabelValues("pdf", "version")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	c := New()
	app := fiber.New()
	app.Use(c.Middleware())
	app.Get("/metrics", c.Handler())
	app.Get("/missing", func(ctx *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "404")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
