package handler

import "github.com/returnhub/backend/internal/interfaces/http/dto"

// APIResponse is the typed response envelope used by handler documentation
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the error response envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// CountData wraps a bare count result
type CountData struct {
	Count int64 `json:"count"`
}
