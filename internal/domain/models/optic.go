package models

// Optic is an optic shop registered on the platform.
type Optic struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	AutoValidate bool   `json:"autoValidate"`
	Active       bool   `json:"active"`
}

// Category groups glasses products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
