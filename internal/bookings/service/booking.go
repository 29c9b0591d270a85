package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "slotly/internal/bookings/errors"
	"slotly/internal/bookings/repository"
	"slotly/internal/bookings/validator"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/locale"
	"slotly/pkg/model"
	"slotly/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const lockTTL = 10 * time.Second

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.BookingStats, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	lockID, err := s.acquireServiceLock(ctx, booking.ServiceID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Release(context.WithoutCancel(ctx), lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to create booking", "service_id", booking.ServiceID, "error", err)
		return err
	}

	s.cfg.Log.WithContext(ctx).Info("Booking created successfully",
		"id", booking.ID,
		"service_id", booking.ServiceID,
		"start_time", booking.StartTime,
		"language", booking.Language,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id, "Failed to retrieve booking")
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	var updated *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return translateRepoError(err, id, "Failed to retrieve booking")
		}
		if existing.Status == update.Status {
			updated = existing
			return nil
		}
		if !canTransition(existing.Status, update.Status) {
			return apperrors.Conflict(fmt.Sprintf("%s: %s -> %s",
				bookingserrors.ErrInvalidStatusTransition, existing.Status, update.Status))
		}
		if err := s.repo.UpdateStatus(sessCtx, id, update.Status); err != nil {
			return translateRepoError(err, id, "Failed to update booking status")
		}
		existing.Status = update.Status
		updated = existing
		return nil
	})
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to update booking status", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.WithContext(ctx).Info("Booking status updated", "id", id, "status", updated.Status)
	return updated, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translateRepoError(err, id, "Failed to delete booking")
	}

	s.cfg.Log.WithContext(ctx).Info("Booking deleted successfully", "id", id)
	return nil
}

func (s *bookingService) Stats(ctx context.Context) (*model.BookingStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate booking stats", "error", err)
		return nil, apperrors.Internal("Failed to compute booking stats", err)
	}

	stats := &model.BookingStats{
		ByStatus: map[string]int64{
			model.BookingStatusPending:   0,
			model.BookingStatusConfirmed: 0,
			model.BookingStatusCancelled: 0,
		},
	}
	for status, n := range counts {
		stats.ByStatus[status] = n
		stats.Total += n
	}
	return stats, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.ServiceID = sanitizer.TrimAndNormalize(b.ServiceID)
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.CustomerPhone = sanitizer.NormalizePhone(b.CustomerPhone)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
	if !locale.IsSupported(b.Language) {
		b.Language = string(locale.DefaultLanguage)
	}
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.ServiceID, booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID || b.Status == model.BookingStatusCancelled {
			continue
		}
		if overlaps(b.StartTime, b.EndTime, booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"%s (%s - %s)",
				bookingserrors.ErrTimeConflict,
				b.StartTime.Format(time.RFC3339),
				b.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// canTransition: pending may move anywhere, confirmed may only be cancelled,
// cancelled is final.
func canTransition(from, to string) bool {
	switch from {
	case model.BookingStatusPending:
		return to == model.BookingStatusConfirmed || to == model.BookingStatusCancelled
	case model.BookingStatusConfirmed:
		return to == model.BookingStatusCancelled
	default:
		return false
	}
}

func (s *bookingService) acquireServiceLock(ctx context.Context, serviceID string) (string, error) {
	lockID := "booking_lock_" + serviceID

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(lockTTL),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict(bookingserrors.ErrServiceBusy.Error() + ", please try again")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func translateRepoError(err error, id string, internalMsg string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal(internalMsg, err)
	}
}
