// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"
	"time"

	"recruiting_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body returned for every failed request.
type ErrorResponse struct {
	Timestamp   time.Time              `json:"timestamp"`
	Status      int                    `json:"status"`
	Error       string                 `json:"error"`
	Message     string                 `json:"message"`
	Path        string                 `json:"path"`
	Details     interface{}            `json:"details,omitempty"`
	FieldErrors []apperr.FieldError    `json:"fieldErrors,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 Created response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// Accepted sends a 202 Accepted response with the given payload.
func Accepted(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusAccepted, payload)
}

// NoContent sends a 204 No Content response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
		Details:   details,
	})
}

// HandleError maps domain errors to HTTP responses.
// If the error is a typed *apperr.Error, it uses the error's Kind to determine
// the HTTP status code and carries over details, field errors and metadata.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		status := domainErr.HTTPStatus()
		c.JSON(status, ErrorResponse{
			Timestamp:   time.Now().UTC(),
			Status:      status,
			Error:       http.StatusText(status),
			Message:     domainErr.Message,
			Path:        c.Request.URL.Path,
			Details:     domainErr.Details,
			FieldErrors: domainErr.FieldErrors,
			Metadata:    domainErr.Metadata,
		})
		return true
	}

	// Non-typed errors never leak internals to the caller
	Error(c, http.StatusInternalServerError, "An unexpected error occurred", nil)
	return true
}
