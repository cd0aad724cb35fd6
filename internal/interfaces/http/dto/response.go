package dto

import "net/http"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// Common error codes
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// GetHTTPStatus maps a domain error code to an HTTP status code
func GetHTTPStatus(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "OFFLINE":
		return http.StatusServiceUnavailable
	case "SYNC_IN_PROGRESS", "DRAIN_IN_PROGRESS", "INVALID_STATE", "NO_PREVIOUS_VERSION", "CONFLICT":
		return http.StatusConflict
	case "BAD_REQUEST", "INVALID_INPUT", "INVALID_STATUS", "INVALID_TOTAL", "INVALID_SALES_REP",
		"INVALID_CUSTOMER", "EMPTY_ORDER", "INVALID_QUANTITY", "INVALID_PRICE":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
