package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID     string    `json:"service_id" bson:"service_id" validate:"required,min=1,max=64"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string    `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	StartTime     time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	Language      string    `json:"language" bson:"language" validate:"omitempty,oneof=en uk ru"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// BookingStats holds per-status counts. Counts come back from Mongo as int64.
type BookingStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}
