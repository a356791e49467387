package dto

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Allowed []string `json:"allowed,omitempty"`
}
