// Package response renders the error envelope shared by handlers and
// middleware. Every failure body carries a human-readable message, the HTTP
// status, and a context tag naming the failing operation so audits can
// attribute failures without the server leaking internal state.
package response

import "github.com/labstack/echo/v4"

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Context string `json:"context"`
}

// Error writes the envelope with the given status. Raw persistence errors
// must never reach this function; callers translate them to messages first.
func Error(c echo.Context, status int, message, context string) error {
	return c.JSON(status, ErrorBody{Message: message, Status: status, Context: context})
}
