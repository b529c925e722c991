package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sales-monitor/internal/export"
	"sales-monitor/internal/service"
)

// APIError is an error with the HTTP status and machine code it maps to.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func badRequest(code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, service.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Deal not found"}
	case errors.Is(err, service.ErrNoData):
		return &APIError{Status: http.StatusServiceUnavailable, Code: "NO_DATA", Message: "No deal data available yet"}
	case errors.Is(err, export.ErrNoSinks):
		return &APIError{Status: http.StatusServiceUnavailable, Code: "EXPORT_DISABLED", Message: "No export sink is configured"}
	default:
		return &APIError{Status: http.StatusBadGateway, Code: "UPSTREAM_ERROR", Message: err.Error()}
	}
}

func respond(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func fail(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"success": false,
		"error":   apiErr.Message,
		"code":    apiErr.Code,
	})
}
