package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedFields(t *testing.T, err error) []string {
	t.Helper()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}

func TestCreateRegistrationRequest_Validate(t *testing.T) {
	require.NoError(t, (&CreateRegistrationRequest{RowID: 1, Date: "2024-03-05"}).Validate())

	err := (&CreateRegistrationRequest{}).Validate()
	assert.ElementsMatch(t, []string{"rowId", "date"}, failedFields(t, err))

	err = (&CreateRegistrationRequest{RowID: 1, Date: "05.03.2024"}).Validate()
	assert.Equal(t, []string{"date"}, failedFields(t, err))

	err = (&CreateRegistrationRequest{RowID: -4, Date: "2024-03-05"}).Validate()
	assert.Equal(t, []string{"rowId"}, failedFields(t, err))
}

func TestRegistrationConversion(t *testing.T) {
	reg, err := (&DeleteRegistrationRequest{RowID: 7, Date: "2024-03-05"}).Registration()
	require.NoError(t, err)

	assert.Equal(t, 7, reg.RowID)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), reg.Date)

	_, err = (&CreateRegistrationRequest{RowID: 7, Date: "2024-13-01"}).Registration()
	var parseErr *time.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLeaderboardRequest_Validate(t *testing.T) {
	require.NoError(t, (&LeaderboardRequest{Year: 2024, Month: 3}).Validate())

	err := (&LeaderboardRequest{Year: 2024}).Validate()
	assert.Equal(t, []string{"month"}, failedFields(t, err))

	err = (&LeaderboardRequest{Year: 2024, Month: 13}).Validate()
	assert.Equal(t, []string{"month"}, failedFields(t, err))
}

func TestRowRequests_Validate(t *testing.T) {
	require.NoError(t, (&CreateRowRequest{}).Validate())
	require.NoError(t, (&UpdateRowRequest{ID: 3, Name: "Bob"}).Validate())

	err := (&UpdateRowRequest{Name: "Bob"}).Validate()
	assert.Equal(t, []string{"id"}, failedFields(t, err))

	err = (&DeleteRowRequest{ID: 0}).Validate()
	assert.Equal(t, []string{"id"}, failedFields(t, err))
}

func TestPathAndQueryFieldsIgnoreBody(t *testing.T) {
	var del DeleteRowRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":2}`), &del))
	assert.Zero(t, del.ID)

	var upd UpdateRowRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"name":"Bob"}`), &upd))
	assert.Zero(t, upd.ID)
	assert.Equal(t, "Bob", upd.Name)

	var lb LeaderboardRequest
	require.NoError(t, json.Unmarshal([]byte(`{"year":1999,"month":1}`), &lb))
	assert.Equal(t, LeaderboardRequest{}, lb)
}
