package model

// MessageResponse is returned by mutations that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// SuccessResponse is returned by DELETE /registrations.
type SuccessResponse struct {
	Success bool `json:"success"`
}

const (
	MessageRowDeleted          = "Row deleted"
	MessageRegistrationCreated = "Registration saved"
)
