package service

import (
	"context"
	"fmt"
	availabilityerrors "slotly/internal/availability/errors"
	"slotly/internal/availability/repository"
	"slotly/internal/availability/validator"
	"slotly/pkg/config"
	apperrors "slotly/pkg/errors"
	"slotly/pkg/model"
	"slotly/pkg/sanitizer"
	"sync"
)

type AvailabilityService interface {
	Create(ctx context.Context, block *model.AvailabilityBlock) error
	ListByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.AvailabilityBlock, int64, error)
	Count(ctx context.Context, serviceID string) (int64, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(repo repository.AvailabilityRepository, validator *validator.AvailabilityValidator, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *availabilityService) Create(ctx context.Context, block *model.AvailabilityBlock) error {
	block.ServiceID = sanitizer.TrimAndNormalize(block.ServiceID)
	block.StartTime = block.StartTime.UTC()
	block.EndTime = block.EndTime.UTC()

	if err := s.validator.Validate(block); err != nil {
		s.cfg.Log.Warn("Availability block validation failed", "error", err)
		return apperrors.Validation("Availability block validation failed", map[string]any{"error": err.Error()})
	}

	overlapping, err := s.repo.CountOverlapping(ctx, block.ServiceID, block.StartTime, block.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing availability", err)
	}
	if overlapping > 0 {
		return apperrors.Conflict(fmt.Sprintf("%s (%d found)", availabilityerrors.ErrOverlap, overlapping))
	}

	if err := s.repo.Create(ctx, block); err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to create availability block", "service_id", block.ServiceID, "error", err)
		return apperrors.Internal("Failed to create availability block", err)
	}

	s.cfg.Log.WithContext(ctx).Info("Availability block created",
		"id", block.ID,
		"service_id", block.ServiceID,
		"start_time", block.StartTime,
		"end_time", block.EndTime,
	)
	return nil
}

func (s *availabilityService) ListByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.AvailabilityBlock, int64, error) {
	serviceID = sanitizer.TrimAndNormalize(serviceID)
	if serviceID == "" {
		return nil, 0, apperrors.InvalidInput(availabilityerrors.ErrInvalidServiceID.Error())
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var blocks []*model.AvailabilityBlock
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, serviceID)
	}()

	go func() {
		defer wg.Done()
		blocks, errFind = s.repo.FindByService(ctx, serviceID, limit, offset)
	}()

	wg.Wait()
	if errCount != nil {
		s.cfg.Log.Error("Failed to count availability blocks", "service_id", serviceID, "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count availability blocks", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list availability blocks", "service_id", serviceID, "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve availability blocks", errFind)
	}

	return blocks, count, nil
}

func (s *availabilityService) Count(ctx context.Context, serviceID string) (int64, error) {
	count, err := s.repo.Count(ctx, sanitizer.TrimAndNormalize(serviceID))
	if err != nil {
		s.cfg.Log.Error("Failed to count availability blocks", "error", err)
		return 0, apperrors.Internal("Failed to count availability blocks", err)
	}
	return count, nil
}
