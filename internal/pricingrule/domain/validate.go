package domain

import (
	"fmt"
	"time"
)

// ValidationError carries the collected structural problems of a rule. All
// violations are gathered before reporting so the caller sees every problem
// at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string { return "pricing_rule_validation_failed" }

// Validate checks structural completeness of a rule per its pricing type.
// It returns nil when the rule is well formed.
func Validate(pricingType PricingType, conditions Conditions, pricing Pricing) error {
	var msgs []string

	if !pricingType.Valid() {
		msgs = append(msgs, fmt.Sprintf("unknown pricing type %q", pricingType))
	}

	switch pricingType {
	case PricingTypeFixed:
		if pricing.BasePriceCents == nil && pricing.PriceModifier == nil {
			msgs = append(msgs, "fixed pricing requires base_price_cents or price_modifier")
		}
	case PricingTypeTiered:
		if len(pricing.Tiers) == 0 {
			msgs = append(msgs, "tiered pricing requires at least one tier")
		}
		for i, tier := range pricing.Tiers {
			if tier.MinQuantity < 0 {
				msgs = append(msgs, fmt.Sprintf("tier %d: min_quantity must be >= 0", i+1))
			}
			if tier.MaxQuantity != nil && *tier.MaxQuantity <= tier.MinQuantity {
				msgs = append(msgs, fmt.Sprintf("tier %d: max_quantity must exceed min_quantity", i+1))
			}
			if tier.PriceCents < 0 {
				msgs = append(msgs, fmt.Sprintf("tier %d: price_cents must be >= 0", i+1))
			}
		}
	case PricingTypeTimeBased:
		if len(conditions.TimeWindows) == 0 {
			msgs = append(msgs, "time_based pricing requires at least one time window")
		}
	case PricingTypePercentage:
		if pricing.PriceModifier == nil {
			msgs = append(msgs, "percentage pricing requires price_modifier")
		}
	case PricingTypeDynamic:
		if pricing.DynamicFormula == nil || *pricing.DynamicFormula == "" {
			msgs = append(msgs, "dynamic pricing requires dynamic_formula")
		}
	}

	if pricing.ModifierType != "" && pricing.ModifierType != ModifierTypeFixed && pricing.ModifierType != ModifierTypePercentage {
		msgs = append(msgs, fmt.Sprintf("unknown modifier type %q", pricing.ModifierType))
	}

	if conditions.MinQuantity != nil && *conditions.MinQuantity < 0 {
		msgs = append(msgs, "min_quantity must be >= 0")
	}
	if conditions.MinQuantity != nil && conditions.MaxQuantity != nil && *conditions.MaxQuantity <= *conditions.MinQuantity {
		msgs = append(msgs, "max_quantity must exceed min_quantity")
	}

	startDate, startErr := parseOptionalDate(conditions.StartDate)
	if startErr != nil {
		msgs = append(msgs, "start_date must be formatted as YYYY-MM-DD")
	}
	endDate, endErr := parseOptionalDate(conditions.EndDate)
	if endErr != nil {
		msgs = append(msgs, "end_date must be formatted as YYYY-MM-DD")
	}
	if startDate != nil && endDate != nil && !endDate.After(*startDate) {
		msgs = append(msgs, "end_date must be after start_date")
	}

	for i, window := range conditions.TimeWindows {
		if window.DayOfWeek < 0 || window.DayOfWeek > 6 {
			msgs = append(msgs, fmt.Sprintf("time window %d: day_of_week must be between 0 and 6", i+1))
		}
		if !validTimeOfDay(window.StartTime) || !validTimeOfDay(window.EndTime) {
			msgs = append(msgs, fmt.Sprintf("time window %d: times must be formatted as HH:MM", i+1))
		} else if window.EndTime <= window.StartTime {
			msgs = append(msgs, fmt.Sprintf("time window %d: end_time must be after start_time", i+1))
		}
	}

	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func validTimeOfDay(value string) bool {
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, value)
	return err == nil
}
