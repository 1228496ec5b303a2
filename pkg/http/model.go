package http

// APIResponse is the dashboard envelope: {"success": ..., "data": ...}.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// FailureResponse is written for every error status.
type FailureResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"funds"`
	Message string                 `json:"message,omitempty" example:"funds is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
