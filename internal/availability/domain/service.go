package domain

import (
	"context"
	"errors"
)

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
	ListSlots(ctx context.Context, req ListRequest) ([]SlotView, error)
	UpdateSlotBooking(ctx context.Context, req BookRequest) (*SlotView, error)
}

var (
	ErrInvalidTenant       = errors.New("invalid_tenant")
	ErrInvalidOffering     = errors.New("invalid_offering")
	ErrInvalidDateRange    = errors.New("invalid_date_range")
	ErrInvalidTemplate     = errors.New("invalid_time_slot_template")
	ErrInvalidTime         = errors.New("invalid_time")
	ErrSlotNotFound        = errors.New("availability_slot_not_found")
	ErrInvalidBookingCount = errors.New("invalid_booking_count")
	ErrGenerationLocked    = errors.New("availability_generation_in_progress")
	ErrGenerationThrottled = errors.New("availability_generation_throttled")
	ErrGenerationFailed    = errors.New("availability_generation_failed")
	ErrCheckFailed         = errors.New("availability_check_failed")
	ErrBookingUpdateFailed = errors.New("slot_booking_update_failed")
)
