package models

// ErrorResponse defines API error response format
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse defines API success response format
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
