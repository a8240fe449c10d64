package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceVoid    InvoiceStatus = "void"
)

const dueDateNotSpecified = "Not specified"

type Invoice struct {
	ID              string        `json:"id" bson:"_id"`
	ReservationID   string        `json:"reservation_id" bson:"reservation_id"`
	CourtID         string        `json:"court_id" bson:"court_id"`
	CustomerID      string        `json:"customer_id" bson:"customer_id"`
	ReservationDate string        `json:"reservation_date" bson:"reservation_date"`
	AmountCents     int64         `json:"amount_cents" bson:"amount_cents"`
	DueDate         string        `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Status          InvoiceStatus `json:"status" bson:"status"`
	PaidAt          *time.Time    `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// Amount renders the amount with two decimals, e.g. "30.00".
func (i *Invoice) Amount() string {
	return FormatCents(i.AmountCents)
}

func (i Invoice) MarshalJSON() ([]byte, error) {
	type plain Invoice
	return json.Marshal(struct {
		plain
		Amount string `json:"amount"`
	}{plain: plain(i), Amount: i.Amount()})
}

// InvoicePresentation is the customer-facing rendering of an invoice.
type InvoicePresentation struct {
	ID              string `json:"id"`
	ReservationID   string `json:"reservation_id"`
	Court           string `json:"court"`
	ReservationDate string `json:"reservation_date"`
	DueDate         string `json:"due_date"`
	Status          string `json:"status"`
	PaidAt          string `json:"paid_at,omitempty"`
	Amount          string `json:"amount"`
}

func (i *Invoice) Presentation(courtName string) InvoicePresentation {
	p := InvoicePresentation{
		ID:              i.ID,
		ReservationID:   i.ReservationID,
		Court:           courtName,
		ReservationDate: i.ReservationDate,
		DueDate:         i.DueDate,
		Status:          string(i.Status),
		Amount:          i.Amount(),
	}
	if p.Court == "" {
		p.Court = i.CourtID
	}
	if p.DueDate == "" {
		p.DueDate = dueDateNotSpecified
	}
	if i.Status == InvoicePaid && i.PaidAt != nil {
		p.PaidAt = i.PaidAt.Format(time.DateTime)
	}
	return p
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// PaymentNotice is what the payments topic carries.
type PaymentNotice struct {
	InvoiceID string    `json:"invoice_id" validate:"required"`
	PaidAt    time.Time `json:"paid_at"`
}

type PayRequest struct {
	PaidAt *time.Time `json:"paid_at,omitempty"`
}
