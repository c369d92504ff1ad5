package model

import (
	"fmt"
	"time"

	"github.com/deppfellow/rowboard/internal/validation"
)

// Registration is one dated event for a Row. A Row has at most one
// registration per calendar date.
type Registration struct {
	RowID int
	Date  time.Time
}

// CreateRegistrationRequest is the body of POST /registrations.
type CreateRegistrationRequest struct {
	RowID int    `json:"rowId" validate:"required,min=1"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r *CreateRegistrationRequest) Validate() error {
	return validation.Struct(r)
}

// Registration converts the validated request into a Registration.
func (r *CreateRegistrationRequest) Registration() (Registration, error) {
	return newRegistration(r.RowID, r.Date)
}

// DeleteRegistrationRequest is the body of DELETE /registrations.
type DeleteRegistrationRequest struct {
	RowID int    `json:"rowId" validate:"required,min=1"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r *DeleteRegistrationRequest) Validate() error {
	return validation.Struct(r)
}

// Registration converts the validated request into a Registration.
func (r *DeleteRegistrationRequest) Registration() (Registration, error) {
	return newRegistration(r.RowID, r.Date)
}

// newRegistration parses a date the datetime validator already accepted.
func newRegistration(rowID int, date string) (Registration, error) {
	d, err := time.Parse(validation.DateLayout, date)
	if err != nil {
		return Registration{}, fmt.Errorf("parsing registration date %q: %w", date, err)
	}
	return Registration{RowID: rowID, Date: d}, nil
}
