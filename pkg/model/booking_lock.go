package model

import "time"

// BookingLock is an advisory lock on a service id, held while the overlap check
// and insert run. Expired locks are swept by a TTL index.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
