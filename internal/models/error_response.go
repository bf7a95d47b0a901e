package models

// ErrorResponse описывает ошибку с кодом и сообщением.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"reason"`
}
