package models

import "time"

// CnamOrder is an order reimbursed through the CNAM insurance scheme.
type CnamOrder struct {
	ID            int64      `json:"id,omitempty"`
	PatientName   string     `json:"patientName"`
	PatientPhone  string     `json:"patientPhone,omitempty"`
	CnamNumber    string     `json:"cnamNumber"`
	PrescriptionN string     `json:"prescriptionNumber,omitempty"`
	OpticID       int64      `json:"opticId,omitempty"`
	TotalPrice    float64    `json:"totalPrice"`
	PaidAmount    float64    `json:"paidAmount"`
	Status        string     `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// EssafwaOrder is an order of the Essafwa programme. The backend still
// serves them under the "elemana-orders" resource.
type EssafwaOrder struct {
	ID          int64      `json:"id,omitempty"`
	ClientName  string     `json:"clientName"`
	ClientPhone string     `json:"clientPhone,omitempty"`
	OpticID     int64      `json:"opticId,omitempty"`
	TotalPrice  float64    `json:"totalPrice"`
	PaidAmount  float64    `json:"paidAmount"`
	AllPaid     bool       `json:"allPaid"`
	InvoiceSent bool       `json:"invoiceSent"`
	Status      string     `json:"status,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// GlassesOrder is a glasses order placed by an optic shop.
type GlassesOrder struct {
	ID         int64      `json:"id,omitempty"`
	OpticID    int64      `json:"opticId"`
	OpticName  string     `json:"opticName,omitempty"`
	ClientName string     `json:"clientName"`
	CategoryID int64      `json:"categoryId,omitempty"`
	Quantity   int        `json:"quantity"`
	TotalPrice float64    `json:"totalPrice"`
	Paid       bool       `json:"paid"`
	Status     string     `json:"status,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// CabinetOrder is a row of the admin order listing.
type CabinetOrder struct {
	ID         int64      `json:"id"`
	Reference  string     `json:"reference,omitempty"`
	Cabinet    string     `json:"cabinet,omitempty"`
	Type       string     `json:"type,omitempty"`
	Status     string     `json:"status,omitempty"`
	TotalPrice float64    `json:"totalPrice"`
	PaidAmount float64    `json:"paidAmount"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}
