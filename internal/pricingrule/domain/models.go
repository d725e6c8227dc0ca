package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PricingType selects which fields of the rule's Pricing payload are
// interpreted during evaluation.
type PricingType string

const (
	PricingTypeFixed      PricingType = "fixed"
	PricingTypeTiered     PricingType = "tiered"
	PricingTypeTimeBased  PricingType = "time_based"
	PricingTypeDynamic    PricingType = "dynamic"
	PricingTypePercentage PricingType = "percentage"
)

func (t PricingType) Valid() bool {
	switch t {
	case PricingTypeFixed, PricingTypeTiered, PricingTypeTimeBased, PricingTypeDynamic, PricingTypePercentage:
		return true
	default:
		return false
	}
}

// ModifierType states whether a price modifier is an absolute cent amount or
// a percentage of the running price.
type ModifierType string

const (
	ModifierTypeFixed      ModifierType = "fixed"
	ModifierTypePercentage ModifierType = "percentage"
)

// DateLayout and TimeLayout are the wire formats for calendar dates and
// times-of-day. Both compare correctly as strings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeWindow is a weekly recurring window. DayOfWeek follows time.Weekday:
// 0 is Sunday, 6 is Saturday.
type TimeWindow struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Conditions are the optional predicates gating a rule. A dimension with no
// condition is vacuously satisfied.
type Conditions struct {
	MinQuantity     *int         `json:"min_quantity,omitempty"`
	MaxQuantity     *int         `json:"max_quantity,omitempty"`
	TimeWindows     []TimeWindow `json:"time_windows,omitempty"`
	StartDate       *string      `json:"start_date,omitempty"`
	EndDate         *string      `json:"end_date,omitempty"`
	CustomerSegment *string      `json:"customer_segment,omitempty"`
}

// Tier maps a quantity range to a unit price. MaxQuantity is inclusive; a nil
// MaxQuantity means the tier is open-ended.
type Tier struct {
	MinQuantity int    `json:"min_quantity"`
	MaxQuantity *int   `json:"max_quantity,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Label       string `json:"label,omitempty"`
}

// Pricing is the type-specific payload of a rule. BasePriceCents replaces the
// running price outright; PriceModifier adjusts it (cents when ModifierType is
// fixed, percent when percentage).
type Pricing struct {
	BasePriceCents *int64       `json:"base_price_cents,omitempty"`
	PriceModifier  *float64     `json:"price_modifier,omitempty"`
	ModifierType   ModifierType `json:"modifier_type,omitempty"`
	Tiers          []Tier       `json:"tiers,omitempty"`
	DynamicFormula *string      `json:"dynamic_formula,omitempty"`
}

// PricingRule is a conditional, prioritized adjustment to an offering's
// price. Rules are soft-deleted only (IsActive=false) to preserve audit
// history; deactivated rules are excluded from evaluation.
type PricingRule struct {
	ID          snowflake.ID                    `json:"id" gorm:"primaryKey"`
	TenantID    snowflake.ID                    `json:"tenant_id" gorm:"column:tenant_id;not null;index"`
	OfferingID  snowflake.ID                    `json:"offering_id" gorm:"not null;index"`
	Name        string                          `json:"name" gorm:"type:text;not null"`
	Description *string                         `json:"description,omitempty" gorm:"type:text"`
	PricingType PricingType                     `json:"pricing_type" gorm:"type:text;not null"`
	Priority    int                             `json:"priority" gorm:"not null;default:0"`
	Conditions  datatypes.JSONType[Conditions]  `json:"conditions" gorm:"type:jsonb"`
	Pricing     datatypes.JSONType[Pricing]     `json:"pricing" gorm:"type:jsonb"`
	IsActive    bool                            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time                       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PricingRule) TableName() string { return "pricing_rules" }
