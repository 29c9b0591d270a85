package validator

import (
	"errors"
	"slotly/pkg/logger"
	"slotly/pkg/model"
	"testing"
	"time"
)

func validBooking(now time.Time) *model.Booking {
	return &model.Booking{
		ServiceID:     "haircut",
		CustomerName:  "Olena Kovalenko",
		CustomerPhone: "+380441234567",
		StartTime:     now.Add(time.Hour),
		EndTime:       now.Add(2 * time.Hour),
		Status:        model.BookingStatusPending,
		Language:      "uk",
	}
}

func TestBookingValidator_Validate(t *testing.T) {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mutate    func(*model.Booking)
		wantField string
	}{
		{name: "valid", mutate: func(*model.Booking) {}},
		{name: "missing service id", mutate: func(b *model.Booking) { b.ServiceID = "" }, wantField: "ServiceID"},
		{name: "name too short", mutate: func(b *model.Booking) { b.CustomerName = "O" }, wantField: "CustomerName"},
		{name: "phone not e164", mutate: func(b *model.Booking) { b.CustomerPhone = "0441234567" }, wantField: "CustomerPhone"},
		{name: "end equals start", mutate: func(b *model.Booking) { b.EndTime = b.StartTime }, wantField: "EndTime"},
		{name: "unknown status", mutate: func(b *model.Booking) { b.Status = "done" }, wantField: "Status"},
		{name: "unsupported language", mutate: func(b *model.Booking) { b.Language = "de" }, wantField: "Language"},
		{name: "starts in the past", mutate: func(b *model.Booking) {
			b.StartTime = now.Add(-time.Hour)
			b.EndTime = now.Add(time.Hour)
		}, wantField: "StartTime"},
	}

	v := NewBookingValidator(logger.Discard())
	v.now = func() time.Time { return now }

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking(now)
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestBookingValidator_ValidateStatusUpdate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: "confirmed"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateStatusUpdate(&model.BookingStatusUpdate{}); err == nil {
		t.Error("expected error for empty status")
	}
}
