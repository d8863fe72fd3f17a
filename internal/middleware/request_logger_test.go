package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cardstash/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_LogsOncePerRequest(t *testing.T) {
	log, hook := test.NewNullLogger()

	e := echo.New()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: func() string { return "rid-1" }}))
	e.Use(middleware.RequestLogger(log))
	e.GET("/ping", func(c echo.Context) error {
		middleware.Logger(c).Info("inside")
		return c.NoContent(http.StatusNoContent)
	}, middleware.CustomerIdentity(testConfig()))

	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	req.Header.Set("x-customer-id", "7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, hook.Entries, 2)

	inside := hook.Entries[0]
	assert.Equal(t, "rid-1", inside.Data["request_id"])

	access := hook.Entries[1]
	assert.Equal(t, "request", access.Message)
	assert.Equal(t, logrus.InfoLevel, access.Level)
	assert.Equal(t, "rid-1", access.Data["request_id"])
	assert.Equal(t, "/ping?x=1", access.Data["uri"])
	assert.Equal(t, http.StatusNoContent, access.Data["status"])
	assert.Equal(t, int64(7), access.Data["customer_id"])
}

func TestRequestLogger_ServerErrorLevel(t *testing.T) {
	log, hook := test.NewNullLogger()

	e := echo.New()
	e.Use(middleware.RequestLogger(log))
	e.GET("/boom", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[0].Level)
}

func TestLogger_Fallback(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, middleware.Logger(c))
}
