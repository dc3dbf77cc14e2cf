// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"orghub_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FailureResponse is the standard failure envelope. StatusCode mirrors the
// HTTP status of the response.
type FailureResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// ValidationResponse carries one entry per failing request field.
type ValidationResponse struct {
	Errors []apperr.FieldError `json:"errors"`
}

// Success sends a success envelope with the given status code.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Status: "success", Message: message, Data: data})
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Failure sends a failure envelope with the given status code and message.
func Failure(c *gin.Context, status int, message string) {
	c.JSON(status, FailureResponse{Status: "Bad request", Message: message, StatusCode: status})
}

// ValidationFailed sends a 422 with per-field errors.
func ValidationFailed(c *gin.Context, fields []apperr.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Errors: fields})
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values use their Kind for the status code; validation
// errors carrying field details render the per-field 422 payload. Untyped
// errors collapse to 400 without exposing internals.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	domainErr, ok := err.(*apperr.Error)
	if !ok {
		Failure(c, http.StatusBadRequest, "request failed")
		return true
	}

	if domainErr.Kind == apperr.KindValidation {
		if fields, ok := domainErr.Details.([]apperr.FieldError); ok && len(fields) > 0 {
			ValidationFailed(c, fields)
			return true
		}
	}

	Failure(c, domainErr.HTTPStatus(), domainErr.Message)
	return true
}
