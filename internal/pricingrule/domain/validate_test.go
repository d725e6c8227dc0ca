package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestValidate_WellFormedRules(t *testing.T) {
	cases := []struct {
		name        string
		pricingType PricingType
		conditions  Conditions
		pricing     Pricing
	}{
		{
			name:        "fixed with modifier",
			pricingType: PricingTypeFixed,
			pricing:     Pricing{PriceModifier: floatPtr(-300), ModifierType: ModifierTypeFixed},
		},
		{
			name:        "fixed with base override",
			pricingType: PricingTypeFixed,
			pricing:     Pricing{BasePriceCents: int64Ptr(1500)},
		},
		{
			name:        "tiered",
			pricingType: PricingTypeTiered,
			pricing: Pricing{Tiers: []Tier{
				{MinQuantity: 1, MaxQuantity: intPtr(5), PriceCents: 1800},
				{MinQuantity: 6, PriceCents: 1500},
			}},
		},
		{
			name:        "time based",
			pricingType: PricingTypeTimeBased,
			conditions: Conditions{TimeWindows: []TimeWindow{
				{DayOfWeek: 1, StartTime: "15:00", EndTime: "18:00"},
			}},
			pricing: Pricing{PriceModifier: floatPtr(-20), ModifierType: ModifierTypePercentage},
		},
		{
			name:        "dynamic",
			pricingType: PricingTypeDynamic,
			pricing:     Pricing{DynamicFormula: strPtr("demand*1.2"), PriceModifier: floatPtr(100)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, Validate(tc.pricingType, tc.conditions, tc.pricing))
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	err := Validate(PricingTypeTiered,
		Conditions{
			MinQuantity: intPtr(10),
			MaxQuantity: intPtr(5),
			StartDate:   strPtr("2025-07-31"),
			EndDate:     strPtr("2025-07-01"),
			TimeWindows: []TimeWindow{{DayOfWeek: 9, StartTime: "25:00", EndTime: "26:00"}},
		},
		Pricing{Tiers: []Tier{
			{MinQuantity: -1, MaxQuantity: intPtr(-2), PriceCents: -100},
		}},
	)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pricing_rule_validation_failed", vErr.Error())

	expected := []string{
		"tier 1: min_quantity must be >= 0",
		"tier 1: max_quantity must exceed min_quantity",
		"tier 1: price_cents must be >= 0",
		"max_quantity must exceed min_quantity",
		"end_date must be after start_date",
		"time window 1: day_of_week must be between 0 and 6",
		"time window 1: times must be formatted as HH:MM",
	}
	assert.ElementsMatch(t, expected, vErr.Messages)
}

func TestValidate_PerTypeRequirements(t *testing.T) {
	cases := []struct {
		name        string
		pricingType PricingType
		conditions  Conditions
		pricing     Pricing
		message     string
	}{
		{
			name:        "fixed without payload",
			pricingType: PricingTypeFixed,
			message:     "fixed pricing requires base_price_cents or price_modifier",
		},
		{
			name:        "tiered without tiers",
			pricingType: PricingTypeTiered,
			message:     "tiered pricing requires at least one tier",
		},
		{
			name:        "time based without windows",
			pricingType: PricingTypeTimeBased,
			pricing:     Pricing{PriceModifier: floatPtr(-10), ModifierType: ModifierTypePercentage},
			message:     "time_based pricing requires at least one time window",
		},
		{
			name:        "percentage without modifier",
			pricingType: PricingTypePercentage,
			message:     "percentage pricing requires price_modifier",
		},
		{
			name:        "dynamic without formula",
			pricingType: PricingTypeDynamic,
			message:     "dynamic pricing requires dynamic_formula",
		},
		{
			name:        "unknown type",
			pricingType: PricingType("freeform"),
			message:     `unknown pricing type "freeform"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.pricingType, tc.conditions, tc.pricing)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Messages, tc.message)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }
