package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/rowboard/internal/config"
	"github.com/deppfellow/rowboard/internal/errs"
	"github.com/deppfellow/rowboard/internal/server"
	"github.com/deppfellow/rowboard/internal/sqlerr"
)

func newTestServer(out *bytes.Buffer) *server.Server {
	logger := zerolog.Nop()
	if out != nil {
		logger = zerolog.New(out)
	}
	return &server.Server{
		Config: config.DefaultConfig(),
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(mw...)
	return e
}

func request(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(nil)
	e := newTestEcho(s, NewRateLimitMiddleware(s).Limit())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, request(e, http.MethodGet, "/ping").Code)
	}
}

func TestRateLimit_SecondRequestIsThrottled(t *testing.T) {
	s := newTestServer(nil)
	s.Config.Server.RateLimit = 1

	e := newTestEcho(s, NewRateLimitMiddleware(s).Limit())
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	require.Equal(t, http.StatusOK, request(e, http.MethodGet, "/ping").Code)

	rec := request(e, http.MethodGet, "/ping")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
	assert.Equal(t, "TOO_MANY_REQUESTS", httpErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Status)
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "http error", err: errs.NewConflictError("dup", true, nil), want: http.StatusConflict},
		{name: "wrapped http error", err: fmt.Errorf("outer: %w", errs.NewNotFoundError("x", true, nil)), want: http.StatusNotFound},
		{name: "echo error", err: echo.ErrMethodNotAllowed, want: http.StatusMethodNotAllowed},
		{name: "no rows", err: fmt.Errorf("deleting row 1: %w", sqlerr.NoRows("rows")), want: http.StatusNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", TableName: "registrations"}, want: http.StatusConflict},
		{name: "unknown", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

// apiLevels returns the level of every "API" line the request logger wrote.
func apiLevels(t *testing.T, out *bytes.Buffer) []string {
	t.Helper()

	var levels []string
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		if line["message"] == "API" {
			levels = append(levels, fmt.Sprint(line["level"]))
		}
	}
	return levels
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		level   string
	}{
		{name: "success", handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) }, level: "info"},
		{name: "not found", handler: func(echo.Context) error { return sqlerr.NoRows("rows") }, level: "warn"},
		{name: "bad request", handler: func(echo.Context) error { return errs.NewBadRequestError("bad", true, nil, nil, nil) }, level: "warn"},
		{name: "internal", handler: func(echo.Context) error { return errors.New("boom") }, level: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := newTestServer(&out)
			global := NewGlobalMiddlewares(s)

			e := newTestEcho(s, NewContextEnhancer(s).EnhanceContext(), global.RequestLogger())
			e.GET("/test", tt.handler)

			request(e, http.MethodGet, "/test")

			assert.Equal(t, []string{tt.level}, apiLevels(t, &out))
		})
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(nil)
	e := newTestEcho(s)
	e.Match([]string{http.MethodGet, http.MethodHead}, "/missing", func(echo.Context) error { return sqlerr.NoRows("rows") })
	e.GET("/boom", func(echo.Context) error { return errors.New(`pq: relation "secret_table" does not exist`) })

	t.Run("HEAD gets no body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodHead, "/missing", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("GET gets the error body", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/missing")
		require.Equal(t, http.StatusNotFound, rec.Code)

		var httpErr errs.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
		assert.Equal(t, "Row not found", httpErr.Message)
	})

	t.Run("internal errors are not leaked", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/boom")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret_table")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/nope")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Route not found")
	})
}

func TestRequestID(t *testing.T) {
	e := newTestEcho(newTestServer(nil), RequestID())
	e.GET("/id", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	rec := request(e, http.MethodGet, "/id")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))
}
