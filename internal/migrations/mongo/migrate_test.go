package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func collection(t *testing.T, name string) Collection {
	t.Helper()
	for _, c := range Collections {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("collection %s not declared", name)
	return Collection{}
}

func TestCollections_Declared(t *testing.T) {
	for _, name := range []string{"Reservations", "Invoices", "Court_locks", "Courts"} {
		c := collection(t, name)
		assert.Contains(t, c.Validator, "$jsonSchema", name)
		assert.NotEmpty(t, c.Indexes, name)
	}
}

func TestInvoices_UniqueReservationIndex(t *testing.T) {
	c := collection(t, "Invoices")
	idx := c.Indexes[0]
	assert.Equal(t, bson.D{{Key: "reservation_id", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
}

func TestCourtLocks_TTLIndex(t *testing.T) {
	c := collection(t, "Court_locks")
	idx := c.Indexes[0]
	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
}

func TestReservations_ValidatorStatuses(t *testing.T) {
	c := collection(t, "Reservations")
	schema := c.Validator["$jsonSchema"].(bson.M)
	status := schema["properties"].(bson.M)["status"].(bson.M)
	assert.ElementsMatch(t, []string{"pending", "confirmed", "cancelled", "completed"}, status["enum"])
}
