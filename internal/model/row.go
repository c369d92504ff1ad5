// Package model holds the domain types and the request payloads the
// handlers bind into.
package model

import "github.com/deppfellow/rowboard/internal/validation"

// Row is a tracked entity that accumulates dated registrations.
type Row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RowWithRegistrations is a Row together with the dates it was registered
// on, formatted as YYYY-MM-DD. Registrations is never nil.
type RowWithRegistrations struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Registrations []string `json:"registrations"`
}

// ListRowsRequest carries no input; it exists so GET /rows runs through
// the same handler pipeline as every other route.
type ListRowsRequest struct{}

func (r *ListRowsRequest) Validate() error {
	return nil
}

// CreateRowRequest is the body of POST /rows. The name is stored as sent.
type CreateRowRequest struct {
	Name string `json:"name"`
}

func (r *CreateRowRequest) Validate() error {
	return nil
}

// UpdateRowRequest is PUT /rows/:id.
type UpdateRowRequest struct {
	ID   int    `param:"id" json:"-" validate:"required,min=1"`
	Name string `json:"name"`
}

func (r *UpdateRowRequest) Validate() error {
	return validation.Struct(r)
}

// DeleteRowRequest is DELETE /rows/:id.
type DeleteRowRequest struct {
	ID int `param:"id" json:"-" validate:"required,min=1"`
}

func (r *DeleteRowRequest) Validate() error {
	return validation.Struct(r)
}
