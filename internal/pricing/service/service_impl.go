package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bookwise/bookwise/internal/config"
	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	"github.com/bookwise/bookwise/internal/pricing/domain"
	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Config       config.Config
	OfferingRepo offeringdomain.Repository
	RuleRepo     ruledomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          config.Config
	offeringRepo offeringdomain.Repository
	ruleRepo     ruledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("pricing.service"),
		cfg:          p.Config,
		offeringRepo: p.OfferingRepo,
		ruleRepo:     p.RuleRepo,
	}
}

// CalculatePrice composes the final price of an offering by applying every
// matching active rule in priority order (lowest priority value first, rule id
// as tie-break) against a running price. Percentage modifiers apply to the
// running price, so stacked discounts compound rather than add.
func (s *Service) CalculatePrice(ctx context.Context, req domain.CalculationRequest) (*domain.CalculationResult, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	reqDate := strings.TrimSpace(req.Date)
	if reqDate != "" {
		if _, err := time.Parse(ruledomain.DateLayout, reqDate); err != nil {
			return nil, domain.ErrInvalidDate
		}
	}
	reqTime := strings.TrimSpace(req.Time)
	if reqTime != "" {
		if _, err := time.Parse(ruledomain.TimeLayout, reqTime); err != nil {
			return nil, domain.ErrInvalidTime
		}
	}

	offering, err := s.offeringRepo.FindByID(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	if offering == nil || !offering.Active {
		// Archived offerings are not priceable.
		return nil, offeringdomain.ErrNotFound
	}

	basePrice := offering.BasePriceCents
	if req.VariantID != "" {
		// Unresolved variant ids are ignored rather than erroring; the
		// calculation proceeds on the plain base price.
		if variantID, err := snowflake.ParseString(strings.TrimSpace(req.VariantID)); err == nil {
			variant, err := s.findVariant(ctx, tenantID, offeringID, variantID)
			if err != nil {
				return nil, err
			}
			if variant != nil {
				basePrice += variant.PriceModifierCents
			}
		}
	}

	rules, err := s.ruleRepo.ListActive(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}

	segment := strings.TrimSpace(req.CustomerSegment)

	price := basePrice
	applied := make([]domain.AppliedRule, 0, len(rules))
	var discounts, surcharges int64

	for i := range rules {
		rule := &rules[i]
		if !matches(rule.Conditions.Data(), quantity, reqDate, reqTime, segment) {
			continue
		}

		next, effective, err := apply(rule, price, quantity)
		if err != nil {
			s.log.Warn("pricing rule skipped",
				zap.String("tenant_id", tenantID.String()),
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if !effective {
			continue
		}

		delta := next - price
		if delta < 0 {
			discounts += -delta
		} else {
			surcharges += delta
		}

		applied = append(applied, domain.AppliedRule{
			ID:           rule.ID.String(),
			Name:         rule.Name,
			PricingType:  string(rule.PricingType),
			ModifierType: string(rule.Pricing.Data().ModifierType),
			DeltaCents:   delta,
		})
		price = next
	}

	// Rules can never push the price below zero.
	if price < 0 {
		surcharges += -price
		price = 0
	}

	currency := s.cfg.DefaultCurrency
	if offering.Currency != nil && *offering.Currency != "" {
		currency = *offering.Currency
	}

	return &domain.CalculationResult{
		OfferingID:      offering.ID.String(),
		Quantity:        quantity,
		Currency:        currency,
		BasePriceCents:  basePrice,
		FinalPriceCents: price,
		AppliedRules:    applied,
		Breakdown: domain.Breakdown{
			BaseCents:       basePrice,
			DiscountsCents:  discounts,
			SurchargesCents: surcharges,
			TotalCents:      price,
		},
	}, nil
}

func (s *Service) findVariant(ctx context.Context, tenantID, offeringID, variantID snowflake.ID) (*offeringdomain.OfferingVariant, error) {
	variants, err := s.offeringRepo.FindVariants(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	for i := range variants {
		if variants[i].ID == variantID && variants[i].Active {
			return &variants[i], nil
		}
	}
	return nil, nil
}

// matches reports whether every present condition dimension is satisfied.
// A rule conditioned on a dimension the request omits does not match.
func matches(c ruledomain.Conditions, quantity int, date, timeOfDay, segment string) bool {
	if c.MinQuantity != nil && quantity < *c.MinQuantity {
		return false
	}
	if c.MaxQuantity != nil && quantity > *c.MaxQuantity {
		return false
	}

	if c.StartDate != nil || c.EndDate != nil {
		if date == "" {
			return false
		}
		if c.StartDate != nil && date < *c.StartDate {
			return false
		}
		if c.EndDate != nil && date > *c.EndDate {
			return false
		}
	}

	if len(c.TimeWindows) > 0 {
		if date == "" || timeOfDay == "" {
			return false
		}
		day, err := time.Parse(ruledomain.DateLayout, date)
		if err != nil {
			return false
		}
		inWindow := false
		for _, w := range c.TimeWindows {
			if w.DayOfWeek != int(day.Weekday()) {
				continue
			}
			// Both bounds inclusive; HH:MM compares lexically.
			if timeOfDay >= w.StartTime && timeOfDay <= w.EndTime {
				inWindow = true
				break
			}
		}
		if !inWindow {
			return false
		}
	}

	if c.CustomerSegment != nil && *c.CustomerSegment != "" {
		if !strings.EqualFold(segment, *c.CustomerSegment) {
			return false
		}
	}

	return true
}

// apply returns the running price after one rule. The second return value
// reports whether the rule actually took effect; a rule that matched but had
// nothing to contribute is not recorded as applied.
func apply(rule *ruledomain.PricingRule, price int64, quantity int) (int64, bool, error) {
	p := rule.Pricing.Data()

	switch rule.PricingType {
	case ruledomain.PricingTypeTiered:
		for _, tier := range p.Tiers {
			if quantity < tier.MinQuantity {
				continue
			}
			if tier.MaxQuantity != nil && quantity > *tier.MaxQuantity {
				continue
			}
			return tier.PriceCents * int64(quantity), true, nil
		}
		// No tier covers the quantity; the rule has no effect.
		return price, false, nil

	case ruledomain.PricingTypeFixed, ruledomain.PricingTypeTimeBased, ruledomain.PricingTypePercentage, ruledomain.PricingTypeDynamic:
		if p.BasePriceCents != nil {
			// A base override wins outright; any modifier on the same
			// rule is ignored.
			return *p.BasePriceCents, true, nil
		}
		if p.PriceModifier != nil {
			switch p.ModifierType {
			case ruledomain.ModifierTypePercentage:
				price += roundHalfAway(float64(price) * *p.PriceModifier / 100)
			default:
				price += roundHalfAway(*p.PriceModifier)
			}
		}
		return price, true, nil

	default:
		return price, false, domain.ErrCalculationFailed
	}
}

func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}
