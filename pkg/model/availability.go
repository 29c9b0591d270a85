package model

import "time"

type AvailabilityBlock struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID string    `json:"service_id" bson:"service_id" validate:"required,min=1,max=64"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
