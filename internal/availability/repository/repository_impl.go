package repository

import (
	"context"
	"time"

	"github.com/bookwise/bookwise/internal/availability/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, slot *domain.AvailabilitySlot) error {
	return db.WithContext(ctx).Create(slot).Error
}

func (r *repo) FindByNaturalKey(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, date time.Time, startTime string) (*domain.AvailabilitySlot, error) {
	var slot domain.AvailabilitySlot
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND offering_id = ? AND date = ? AND start_time = ?", tenantID, offeringID, date, startTime).
		First(&slot).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, date time.Time) ([]domain.AvailabilitySlot, error) {
	var items []domain.AvailabilitySlot
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND offering_id = ? AND date = ? AND is_available = ?", tenantID, offeringID, date, true).
		Order("start_time ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListRange(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, start, end time.Time) ([]domain.AvailabilitySlot, error) {
	var items []domain.AvailabilitySlot
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND offering_id = ? AND date BETWEEN ? AND ?", tenantID, offeringID, start, end).
		Order("date ASC, start_time ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindNextAvailable(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, from time.Time, quantity, limit int) ([]domain.AvailabilitySlot, error) {
	var items []domain.AvailabilitySlot
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND offering_id = ? AND date >= ? AND is_available = ?", tenantID, offeringID, from, true).
		Where("capacity - booked_count >= ?", quantity).
		Order("date ASC, start_time ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateBookedCount(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, date time.Time, startTime string, delta int, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.AvailabilitySlot{}).
		Where("tenant_id = ? AND offering_id = ? AND date = ? AND start_time = ?", tenantID, offeringID, date, startTime).
		Where("booked_count + ? BETWEEN 0 AND capacity", delta).
		Updates(map[string]any{
			"booked_count": gorm.Expr("booked_count + ?", delta),
			"updated_at":   now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
