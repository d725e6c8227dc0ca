package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert creates the slot, returning the storage error unchanged so
	// callers can detect duplicate-key conflicts on the natural key.
	Insert(ctx context.Context, db *gorm.DB, slot *AvailabilitySlot) error

	FindByNaturalKey(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, date time.Time, startTime string) (*AvailabilitySlot, error)

	// ListByDate returns the offering's open slots on one date ordered by
	// start_time.
	ListByDate(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, date time.Time) ([]AvailabilitySlot, error)

	// ListRange returns all slots (open or not) over an inclusive date
	// range ordered by (date, start_time).
	ListRange(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, start, end time.Time) ([]AvailabilitySlot, error)

	// FindNextAvailable scans forward from the given date (inclusive) for
	// open slots with remaining capacity >= quantity, ordered by
	// (date, start_time), returning at most limit rows.
	FindNextAvailable(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, from time.Time, quantity, limit int) ([]AvailabilitySlot, error)

	// UpdateBookedCount applies delta as a single conditional UPDATE whose
	// predicate enforces 0 <= booked_count+delta <= capacity. It reports
	// the number of rows affected: zero means the slot vanished or the
	// capacity invariant would have been violated.
	UpdateBookedCount(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, date time.Time, startTime string, delta int, now time.Time) (int64, error)
}
