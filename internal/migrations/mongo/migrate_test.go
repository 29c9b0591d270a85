package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	defs := Collections()

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Indexes, "collection %s has no indexes", def.Name)
	}
	assert.Equal(t, []string{"Bookings", "Availability_blocks", "Booking_locks"}, names)
}

func TestBookingLocksExpire(t *testing.T) {
	idx := BookingLocksIndexes[0]
	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx.Keys)
	if assert.NotNil(t, idx.Options) && assert.NotNil(t, idx.Options.ExpireAfterSeconds) {
		assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
	}
}
