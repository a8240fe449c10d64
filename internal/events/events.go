// Package events carries reservation and invoice lifecycle notifications to
// downstream consumers. Publishing happens after commit and never affects the
// outcome of the operation that produced the event.
package events

import (
	"context"
	"sync"
	"time"

	"courtbook/pkg/model"
)

const (
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
	ReservationCompleted = "reservation.completed"
	InvoiceIssued        = "invoice.issued"
	InvoicePaid          = "invoice.paid"
	InvoiceVoided        = "invoice.voided"
)

const SchemaVersion = "1"

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	// Key orders events of one aggregate on a partition.
	Key         string             `json:"-"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
	Invoice     *model.Invoice     `json:"invoice,omitempty"`
}

func ForReservation(eventType string, r *model.Reservation) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Key: r.ID, Reservation: r}
}

func ForInvoice(eventType string, inv *model.Invoice) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Key: inv.ReservationID, Invoice: inv}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

// Nop drops every event. Used when Kafka is disabled.
func Nop() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error {
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
