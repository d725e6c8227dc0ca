package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bookwise/bookwise/internal/config"
	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	offeringrepo "github.com/bookwise/bookwise/internal/offering/repository"
	"github.com/bookwise/bookwise/internal/pricing/domain"
	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	rulerepo "github.com/bookwise/bookwise/internal/pricingrule/repository"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      domain.Service
	tenantID snowflake.ID
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&offeringdomain.Offering{},
		&offeringdomain.OfferingVariant{},
		&ruledomain.PricingRule{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	tenantID := node.Generate()
	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		Config:       config.Config{DefaultCurrency: "USD"},
		OfferingRepo: offeringrepo.Provide(),
		RuleRepo:     rulerepo.Provide(),
	})

	return &fixture{
		db:       db,
		node:     node,
		svc:      svc,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), int64(tenantID)),
	}
}

func (f *fixture) createOffering(t *testing.T, basePriceCents int64, currency *string) *offeringdomain.Offering {
	t.Helper()
	now := time.Now().UTC()
	offering := &offeringdomain.Offering{
		ID:             f.node.Generate(),
		TenantID:       f.tenantID,
		Name:           "Dinner Table",
		BasePriceCents: basePriceCents,
		Currency:       currency,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.db.Create(offering).Error)
	return offering
}

func (f *fixture) createRule(t *testing.T, offeringID snowflake.ID, priority int, pricingType ruledomain.PricingType, conditions ruledomain.Conditions, pricing ruledomain.Pricing) *ruledomain.PricingRule {
	t.Helper()
	now := time.Now().UTC()
	rule := &ruledomain.PricingRule{
		ID:          f.node.Generate(),
		TenantID:    f.tenantID,
		OfferingID:  offeringID,
		Name:        fmt.Sprintf("rule-%d", priority),
		PricingType: pricingType,
		Priority:    priority,
		Conditions:  datatypes.NewJSONType(conditions),
		Pricing:     datatypes.NewJSONType(pricing),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.db.Create(rule).Error)
	return rule
}

func ptrInt(v int) *int           { return &v }
func ptrInt64(v int64) *int64     { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }

func TestCalculatePrice_HappyHourPercentageDiscount(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	// -20% on Mondays between 15:00 and 18:00.
	f.createRule(t, offering.ID, 1, ruledomain.PricingTypePercentage,
		ruledomain.Conditions{
			TimeWindows: []ruledomain.TimeWindow{{DayOfWeek: 1, StartTime: "15:00", EndTime: "18:00"}},
		},
		ruledomain.Pricing{PriceModifier: ptrFloat(-20), ModifierType: ruledomain.ModifierTypePercentage},
	)

	// 2025-06-02 is a Monday.
	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		Date:       "2025-06-02",
		Time:       "16:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1600), result.FinalPriceCents)
	assert.Equal(t, int64(2000), result.BasePriceCents)
	require.Len(t, result.AppliedRules, 1)
	assert.Equal(t, int64(-400), result.AppliedRules[0].DeltaCents)
	assert.Equal(t, int64(400), result.Breakdown.DiscountsCents)
	assert.Equal(t, "USD", result.Currency)

	// Outside the window the rule does not apply.
	result, err = f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		Date:       "2025-06-02",
		Time:       "19:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.FinalPriceCents)
	assert.Empty(t, result.AppliedRules)
}

func TestCalculatePrice_WindowBoundsInclusive(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypePercentage,
		ruledomain.Conditions{
			TimeWindows: []ruledomain.TimeWindow{{DayOfWeek: 1, StartTime: "15:00", EndTime: "18:00"}},
		},
		ruledomain.Pricing{PriceModifier: ptrFloat(-20), ModifierType: ruledomain.ModifierTypePercentage},
	)

	// Both window bounds admit the request, matching the closed intervals
	// used for quantity, date range and tier bounds.
	for _, at := range []string{"15:00", "18:00"} {
		result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
			OfferingID: offering.ID.String(),
			Date:       "2025-06-02",
			Time:       at,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1600), result.FinalPriceCents, "time %s", at)
		assert.Len(t, result.AppliedRules, 1, "time %s", at)
	}
}

func TestCalculatePrice_TieredQuantity(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeTiered,
		ruledomain.Conditions{},
		ruledomain.Pricing{Tiers: []ruledomain.Tier{
			{MinQuantity: 1, MaxQuantity: ptrInt(2), PriceCents: 2000},
			{MinQuantity: 3, MaxQuantity: ptrInt(5), PriceCents: 1800},
			{MinQuantity: 6, PriceCents: 1500},
		}},
	)

	cases := []struct {
		quantity int
		want     int64
	}{
		{1, 2000},
		{2, 4000},  // inclusive tier max
		{4, 7200},  // middle tier
		{5, 9000},
		{6, 9000},  // open-ended top tier
		{10, 15000},
	}
	for _, tc := range cases {
		result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
			OfferingID: offering.ID.String(),
			Quantity:   tc.quantity,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.FinalPriceCents, "quantity %d", tc.quantity)
	}
}

func TestCalculatePrice_TieredWithoutCoveringTierNotRecorded(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeTiered,
		ruledomain.Conditions{},
		ruledomain.Pricing{Tiers: []ruledomain.Tier{{MinQuantity: 5, PriceCents: 1500}}},
	)

	// The rule matches but no tier covers quantity 2, so it neither moves
	// the price nor shows up as applied.
	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.FinalPriceCents)
	assert.Empty(t, result.AppliedRules)
}

func TestCalculatePrice_PercentageCompoundsOnRunningPrice(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	// Priority 1 subtracts 300 cents, priority 2 then takes 20% off the
	// adjusted price: (2000 - 300) * 0.8 = 1360.
	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(-300), ModifierType: ruledomain.ModifierTypeFixed},
	)
	f.createRule(t, offering.ID, 2, ruledomain.PricingTypePercentage,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(-20), ModifierType: ruledomain.ModifierTypePercentage},
	)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1360), result.FinalPriceCents)
	require.Len(t, result.AppliedRules, 2)
	assert.Equal(t, int64(-300), result.AppliedRules[0].DeltaCents)
	assert.Equal(t, int64(-340), result.AppliedRules[1].DeltaCents)
	assert.Equal(t, int64(640), result.Breakdown.DiscountsCents)
}

func TestCalculatePrice_SamePriorityAppliesInCreationOrder(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	// Two -10% rules at the same priority compound: 2000 * 0.9 * 0.9 = 1620.
	f.createRule(t, offering.ID, 1, ruledomain.PricingTypePercentage,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(-10), ModifierType: ruledomain.ModifierTypePercentage},
	)
	f.createRule(t, offering.ID, 1, ruledomain.PricingTypePercentage,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(-10), ModifierType: ruledomain.ModifierTypePercentage},
	)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1620), result.FinalPriceCents)
}

func TestCalculatePrice_ClampsAtZero(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(-5000), ModifierType: ruledomain.ModifierTypeFixed},
	)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.FinalPriceCents)
	assert.Equal(t, int64(0), result.Breakdown.TotalCents)
}

func TestCalculatePrice_FixedBasePriceOverride(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{},
		ruledomain.Pricing{BasePriceCents: ptrInt64(1500)},
	)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), result.FinalPriceCents)
}

func TestCalculatePrice_VariantModifierAddsToBase(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	now := time.Now().UTC()
	variant := &offeringdomain.OfferingVariant{
		ID:                 f.node.Generate(),
		TenantID:           f.tenantID,
		OfferingID:         offering.ID,
		Name:               "Window seat",
		PriceModifierCents: 500,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, f.db.Create(variant).Error)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		VariantID:  variant.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), result.BasePriceCents)
	assert.Equal(t, int64(2500), result.FinalPriceCents)

	// An unresolved variant id is ignored, not an error.
	result, err = f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		VariantID:  f.node.Generate().String(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.FinalPriceCents)
}

func TestCalculatePrice_ConditionFiltering(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{MinQuantity: ptrInt(5)},
		ruledomain.Pricing{PriceModifier: ptrFloat(-500), ModifierType: ruledomain.ModifierTypeFixed},
	)
	f.createRule(t, offering.ID, 2, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{CustomerSegment: ptrString("vip")},
		ruledomain.Pricing{PriceModifier: ptrFloat(-200), ModifierType: ruledomain.ModifierTypeFixed},
	)
	f.createRule(t, offering.ID, 3, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{StartDate: ptrString("2025-07-01"), EndDate: ptrString("2025-07-31")},
		ruledomain.Pricing{PriceModifier: ptrFloat(-100), ModifierType: ruledomain.ModifierTypeFixed},
	)

	// Quantity below the minimum, no segment, no date: nothing applies.
	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.FinalPriceCents)
	assert.Empty(t, result.AppliedRules)

	// Segment matches case-insensitively.
	result, err = f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID:      offering.ID.String(),
		CustomerSegment: "VIP",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1800), result.FinalPriceCents)

	// Date inside the range activates the seasonal rule.
	result, err = f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{
		OfferingID: offering.ID.String(),
		Date:       "2025-07-15",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1900), result.FinalPriceCents)
}

func TestCalculatePrice_InactiveRulesExcluded(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	rule := f.createRule(t, offering.ID, 1, ruledomain.PricingTypeFixed,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(-500), ModifierType: ruledomain.ModifierTypeFixed},
	)
	require.NoError(t, f.db.Model(rule).Update("is_active", false).Error)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), result.FinalPriceCents)
	assert.Empty(t, result.AppliedRules)
}

func TestCalculatePrice_CurrencyResolution(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, ptrString("EUR"))

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.Currency)
}

func TestCalculatePrice_OfferingNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: f.node.Generate().String()})
	assert.ErrorIs(t, err, offeringdomain.ErrNotFound)
}

func TestCalculatePrice_ArchivedOfferingNotPriceable(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)
	require.NoError(t, f.db.Model(offering).Update("active", false).Error)

	_, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	assert.ErrorIs(t, err, offeringdomain.ErrNotFound)
}

func TestCalculatePrice_TenantIsolation(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	otherTenant := tenantctx.WithTenantID(context.Background(), int64(f.node.Generate()))
	_, err := f.svc.CalculatePrice(otherTenant, domain.CalculationRequest{OfferingID: offering.ID.String()})
	assert.ErrorIs(t, err, offeringdomain.ErrNotFound)
}

func TestCalculatePrice_DynamicTreatedAsFixedModifier(t *testing.T) {
	f := newFixture(t)
	offering := f.createOffering(t, 2000, nil)

	f.createRule(t, offering.ID, 1, ruledomain.PricingTypeDynamic,
		ruledomain.Conditions{},
		ruledomain.Pricing{PriceModifier: ptrFloat(250), ModifierType: ruledomain.ModifierTypeFixed, DynamicFormula: ptrString("demand*1.1")},
	)

	result, err := f.svc.CalculatePrice(f.ctx, domain.CalculationRequest{OfferingID: offering.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(2250), result.FinalPriceCents)
	assert.Equal(t, int64(250), result.Breakdown.SurchargesCents)
}
