// Package errs defines custom error types and utilities.
//
// Its purpose is to give every failure that reaches a client the same
// JSON shape (HTTPError) with a meaningful, actionable message, while the
// original error is kept for the logs.
package errs
