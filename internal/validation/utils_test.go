package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/rowboard/internal/errs"
)

type registrationPayload struct {
	RowID int    `json:"rowId" validate:"required,min=1"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (p *registrationPayload) Validate() error {
	return Struct(p)
}

type monthQuery struct {
	Year  int `query:"year" validate:"required"`
	Month int `query:"month" validate:"required,min=1,max=12"`
}

func (q *monthQuery) Validate() error {
	return Struct(q)
}

type customPayload struct{}

func (customPayload) Validate() error {
	return CustomValidationErrors{{Field: "name", Message: "is reserved"}}
}

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func fields(httpErr *errs.HTTPError) map[string]string {
	out := make(map[string]string, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestBindAndValidate_Valid(t *testing.T) {
	payload := &registrationPayload{}
	c := newContext(http.MethodPost, "/registrations", `{"rowId":1,"date":"2024-03-05"}`)

	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, 1, payload.RowID)
	assert.Equal(t, "2024-03-05", payload.Date)
}

func TestBindAndValidate_MissingFields(t *testing.T) {
	c := newContext(http.MethodPost, "/registrations", `{}`)

	httpErr := requireHTTPError(t, BindAndValidate(c, &registrationPayload{}))
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, map[string]string{
		"rowId": "is required",
		"date":  "is required",
	}, fields(httpErr))
}

func TestBindAndValidate_MalformedDate(t *testing.T) {
	c := newContext(http.MethodPost, "/registrations", `{"rowId":1,"date":"2024-02-30"}`)

	httpErr := requireHTTPError(t, BindAndValidate(c, &registrationPayload{}))
	assert.Equal(t, "must be a valid date (YYYY-MM-DD)", fields(httpErr)["date"])
}

func TestBindAndValidate_WrongJSONType(t *testing.T) {
	c := newContext(http.MethodPost, "/registrations", `{"rowId":"one","date":"2024-03-05"}`)

	httpErr := requireHTTPError(t, BindAndValidate(c, &registrationPayload{}))
	assert.Equal(t, "must be a whole number", fields(httpErr)["rowId"])
}

func TestBindAndValidate_InvalidJSON(t *testing.T) {
	c := newContext(http.MethodPost, "/registrations", `{"rowId":`)

	httpErr := requireHTTPError(t, BindAndValidate(c, &registrationPayload{}))
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_QueryParams(t *testing.T) {
	q := &monthQuery{}
	require.NoError(t, BindAndValidate(newContext(http.MethodGet, "/leaderboard?year=2024&month=3", ""), q))
	assert.Equal(t, 2024, q.Year)
	assert.Equal(t, 3, q.Month)

	httpErr := requireHTTPError(t, BindAndValidate(newContext(http.MethodGet, "/leaderboard?year=2024&month=13", ""), &monthQuery{}))
	assert.Equal(t, "must not exceed 12", fields(httpErr)["month"])

	httpErr = requireHTTPError(t, BindAndValidate(newContext(http.MethodGet, "/leaderboard", ""), &monthQuery{}))
	assert.Equal(t, map[string]string{
		"year":  "is required",
		"month": "is required",
	}, fields(httpErr))
}

func TestBindAndValidate_NonNumericQuery(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodGet, "/leaderboard?year=abc&month=3", ""), &monthQuery{})
	requireHTTPError(t, err)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newContext(http.MethodPost, "/", `{}`), &customPayload{}))
	assert.Equal(t, map[string]string{"name": "is reserved"}, fields(httpErr))
}
