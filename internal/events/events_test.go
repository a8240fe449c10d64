package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/pkg/kafka"
	"courtbook/pkg/model"
)

type capture struct {
	msgs []kafka.Message
}

func (c *capture) Publish(_ context.Context, msg kafka.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestKafkaPublisher_Headers(t *testing.T) {
	sink := &capture{}
	pub := NewKafkaPublisher(sink, "courtbook-test")

	inv := &model.Invoice{ID: "inv-1", ReservationID: "res-1", AmountCents: 3000, Status: model.InvoicePending}
	require.NoError(t, pub.Publish(context.Background(), ForInvoice(InvoiceIssued, inv)))

	require.Len(t, sink.msgs, 1)
	msg := sink.msgs[0]
	assert.Equal(t, "res-1", msg.Key)
	assert.Equal(t, InvoiceIssued, msg.GetEventType())
	assert.Equal(t, "courtbook-test", msg.Headers[kafka.HeaderSource])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, InvoiceIssued, body["type"])
	assert.NotNil(t, body["invoice"])
	assert.Nil(t, body["reservation"])
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	r := &model.Reservation{ID: "r1"}
	_ = rec.Publish(context.Background(), ForReservation(ReservationConfirmed, r))
	_ = rec.Publish(context.Background(), ForReservation(ReservationCancelled, r))

	assert.Equal(t, []string{ReservationConfirmed, ReservationCancelled}, rec.Types())
	assert.NoError(t, Nop().Publish(context.Background(), Event{}))
}
