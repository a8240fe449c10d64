package model

import (
	"time"

	"courtbook/pkg/calendar"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Cancelled and completed are terminal.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              string            `json:"id" bson:"_id"`
	CustomerID      string            `json:"customer_id" bson:"customer_id"`
	CourtID         string            `json:"court_id" bson:"court_id"`
	Unit            Unit              `json:"unit" bson:"unit"`
	ReservationDate string            `json:"reservation_date" bson:"reservation_date"`
	StartTime       time.Time         `json:"start_time" bson:"start_time"`
	EndTime         time.Time         `json:"end_time" bson:"end_time"`
	Status          ReservationStatus `json:"status" bson:"status"`
	PriceCents      int64             `json:"price_cents" bson:"price_cents"`
	InvoiceID       string            `json:"invoice_id,omitempty" bson:"invoice_id,omitempty"`
	CancelledBy     string            `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

func (r *Reservation) Window() calendar.Window {
	return calendar.Window{Start: r.StartTime, End: r.EndTime}
}

// Holds reports whether the reservation still claims its unit.
func (r *Reservation) Holds() bool {
	return r.Status != ReservationCancelled
}

// StatusChange is applied by repositories as a conditional update.
type StatusChange struct {
	To          ReservationStatus
	InvoiceID   string
	CancelledBy string
	At          time.Time
}

// BookingRequest is the intake shape for a new reservation. Exactly one of
// the explicit window (StartTime and EndTime) or SlotIndex is set.
type BookingRequest struct {
	CustomerID string `json:"customer_id" validate:"required,min=1,max=100"`
	CourtID    string `json:"court_id" validate:"required,min=1,max=100"`
	Date       string `json:"date" validate:"required,civil_date"`
	Section    string `json:"section,omitempty" validate:"omitempty,unit"`
	StartTime  string `json:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime    string `json:"end_time,omitempty" validate:"omitempty,time_of_day"`
	SlotIndex  *int   `json:"slot_index,omitempty" validate:"omitempty,min=0"`
	SlotCount  int    `json:"slot_count,omitempty" validate:"omitempty,min=1"`
}

type CancelRequest struct {
	Actor string `json:"actor" validate:"required,min=1,max=100"`
}
