package domain

import (
	"time"

	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/bwmarrin/snowflake"
)

// AvailabilitySlot is one bookable time window on one concrete date. The
// unique index over (tenant_id, offering_id, date, start_time) is the natural
// key; generation relies on it to stay idempotent under concurrent runs.
type AvailabilitySlot struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID    snowflake.ID `json:"tenant_id" gorm:"column:tenant_id;not null;uniqueIndex:ux_slots_natural_key,priority:1"`
	OfferingID  snowflake.ID `json:"offering_id" gorm:"not null;uniqueIndex:ux_slots_natural_key,priority:2"`
	Date        time.Time    `json:"date" gorm:"type:date;not null;uniqueIndex:ux_slots_natural_key,priority:3"`
	StartTime   string       `json:"start_time" gorm:"type:text;not null;uniqueIndex:ux_slots_natural_key,priority:4"`
	EndTime     string       `json:"end_time" gorm:"type:text;not null"`
	Capacity    int          `json:"capacity" gorm:"not null"`
	BookedCount int          `json:"booked_count" gorm:"not null;default:0"`
	IsAvailable bool         `json:"is_available" gorm:"not null;default:true"`
	PriceCents  *int64       `json:"price_cents,omitempty"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AvailabilitySlot) TableName() string { return "availability_slots" }

// AvailableCapacity is the remaining headroom on the slot.
func (s *AvailabilitySlot) AvailableCapacity() int {
	return s.Capacity - s.BookedCount
}

// TemplateSlot is one entry of the weekly generation template. DayOfWeek
// follows time.Weekday (0 is Sunday).
type TemplateSlot struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
}

// SpecialPricing adjusts the stored slot price on an exact date: cents when
// ModifierType is fixed, percent of the calculated price when percentage.
type SpecialPricing struct {
	PriceModifier float64                 `json:"price_modifier"`
	ModifierType  ruledomain.ModifierType `json:"modifier_type"`
}

// GenerateRequest expands a weekly template over an inclusive date range.
// SpecialPricing is keyed by YYYY-MM-DD date.
type GenerateRequest struct {
	OfferingID     string                    `json:"offering_id"`
	StartDate      string                    `json:"start_date"`
	EndDate        string                    `json:"end_date"`
	TimeSlots      []TemplateSlot            `json:"time_slots"`
	ExcludeDates   []string                  `json:"exclude_dates"`
	SpecialPricing map[string]SpecialPricing `json:"special_pricing"`
}

// GenerateResult reports only newly created slots; re-runs over an already
// generated range count zero.
type GenerateResult struct {
	SlotsCreated int `json:"slots_created"`
}

// CheckRequest asks whether the offering can absorb Quantity bookings on
// Date. StartTime/EndTime optionally narrow to slots fully inside the window.
type CheckRequest struct {
	OfferingID string `json:"offering_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Quantity   int    `json:"quantity"`
}

// SlotView is the API shape of a slot.
type SlotView struct {
	ID                string `json:"id"`
	Date              string `json:"date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	Capacity          int    `json:"capacity"`
	BookedCount       int    `json:"booked_count"`
	AvailableCapacity int    `json:"available_capacity"`
	IsAvailable       bool   `json:"is_available"`
	PriceCents        *int64 `json:"price_cents,omitempty"`
}

type CheckResult struct {
	IsAvailable           bool       `json:"is_available"`
	Slots                 []SlotView `json:"slots"`
	NextAvailableDate     *string    `json:"next_available_date,omitempty"`
	SuggestedAlternatives []SlotView `json:"suggested_alternatives,omitempty"`
}

// ListRequest returns the offering's slots over an inclusive date range.
type ListRequest struct {
	OfferingID string
	StartDate  string
	EndDate    string
}

// BookRequest mutates a slot's booked count by Delta; negative delta is a
// cancellation.
type BookRequest struct {
	OfferingID string `json:"offering_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	Delta      int    `json:"delta"`
}
