package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bookwise/bookwise/internal/availability/domain"
	"github.com/bookwise/bookwise/internal/clock"
	"github.com/bookwise/bookwise/internal/config"
	"github.com/bookwise/bookwise/internal/observability/metrics"
	offeringdomain "github.com/bookwise/bookwise/internal/offering/domain"
	pricingdomain "github.com/bookwise/bookwise/internal/pricing/domain"
	ruledomain "github.com/bookwise/bookwise/internal/pricingrule/domain"
	"github.com/bookwise/bookwise/internal/ratelimit"
	"github.com/bookwise/bookwise/internal/tenantctx"
	"github.com/bookwise/bookwise/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const alternativesLimit = 3

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Config       config.Config
	Clock        clock.Clock
	GenID        *snowflake.Node
	Repo         domain.Repository
	OfferingRepo offeringdomain.Repository
	Pricing      pricingdomain.Service
	Locker       *ratelimit.Locker          `optional:"true"`
	Limiter      *ratelimit.GenerateLimiter `optional:"true"`
	Bookings     *metrics.BookingMetrics    `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          config.Config
	clock        clock.Clock
	genID        *snowflake.Node
	repo         domain.Repository
	offeringRepo offeringdomain.Repository
	pricing      pricingdomain.Service
	locker       *ratelimit.Locker
	limiter      *ratelimit.GenerateLimiter
	bookings     *metrics.BookingMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("availability.service"),
		cfg:          p.Config,
		clock:        p.Clock,
		genID:        p.GenID,
		repo:         p.Repo,
		offeringRepo: p.OfferingRepo,
		pricing:      p.Pricing,
		locker:       p.Locker,
		limiter:      p.Limiter,
		bookings:     p.Bookings,
	}
}

// Generate expands the weekly template over the inclusive date range. It is
// additive and safe to re-run over overlapping ranges: existing slots are
// never overwritten, and the natural-key unique index resolves concurrent
// inserts of the same slot in favour of whichever run commits first.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateTemplate(req.TimeSlots); err != nil {
		return nil, err
	}

	offering, err := s.offeringRepo.FindByID(ctx, s.db, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	if offering == nil || !offering.Active {
		// Archived offerings cannot grow new availability.
		return nil, offeringdomain.ErrNotFound
	}

	limit, err := s.limiter.Allow(ctx, tenantID)
	if err != nil {
		s.log.Warn("generation rate limiter unavailable", zap.Error(err))
	} else if !limit.Allowed {
		return nil, domain.ErrGenerationThrottled
	}

	if s.locker != nil {
		key := fmt.Sprintf("availability:generate:%s:%s", tenantID.String(), offeringID.String())
		ttl := time.Duration(s.cfg.Redis.GenerateLockTTL) * time.Second
		token, acquired, err := s.locker.TryLock(ctx, key, ttl)
		if err != nil {
			s.log.Warn("generation lock unavailable", zap.Error(err))
		} else if !acquired {
			return nil, domain.ErrGenerationLocked
		} else {
			defer func() {
				if err := s.locker.Release(ctx, key, token); err != nil {
					s.log.Warn("generation lock release failed", zap.Error(err))
				}
			}()
		}
	}

	excluded := make(map[string]struct{}, len(req.ExcludeDates))
	for _, d := range req.ExcludeDates {
		excluded[strings.TrimSpace(d)] = struct{}{}
	}

	created := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format(ruledomain.DateLayout)
		if _, skip := excluded[dateStr]; skip {
			continue
		}

		for _, tpl := range req.TimeSlots {
			if tpl.DayOfWeek != int(date.Weekday()) {
				continue
			}

			var priceCents *int64
			if special, ok := req.SpecialPricing[dateStr]; ok {
				price, err := s.resolveSpecialPrice(ctx, req.OfferingID, dateStr, tpl.StartTime, special)
				if err != nil {
					s.log.Error("special pricing resolution failed",
						zap.String("tenant_id", tenantID.String()),
						zap.String("offering_id", offeringID.String()),
						zap.String("date", dateStr),
						zap.Error(err),
					)
					return nil, domain.ErrGenerationFailed
				}
				priceCents = &price
			}

			now := s.clock.Now().UTC()
			slot := &domain.AvailabilitySlot{
				ID:          s.genID.Generate(),
				TenantID:    tenantID,
				OfferingID:  offeringID,
				Date:        date,
				StartTime:   tpl.StartTime,
				EndTime:     tpl.EndTime,
				Capacity:    tpl.Capacity,
				BookedCount: 0,
				IsAvailable: true,
				PriceCents:  priceCents,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if err := s.repo.Insert(ctx, s.db, slot); err != nil {
				if db.IsDuplicateKeyErr(err) {
					continue
				}
				s.log.Error("slot insert failed",
					zap.String("tenant_id", tenantID.String()),
					zap.String("offering_id", offeringID.String()),
					zap.String("date", dateStr),
					zap.String("start_time", tpl.StartTime),
					zap.Error(err),
				)
				return nil, domain.ErrGenerationFailed
			}
			created++
		}
	}

	s.log.Info("availability generated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("offering_id", offeringID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("slots_created", created),
	)

	return &domain.GenerateResult{SlotsCreated: created}, nil
}

// resolveSpecialPrice calculates the offering's price for the given date and
// time, then applies the special-date modifier on top.
func (s *Service) resolveSpecialPrice(ctx context.Context, offeringID, date, startTime string, special domain.SpecialPricing) (int64, error) {
	calc, err := s.pricing.CalculatePrice(ctx, pricingdomain.CalculationRequest{
		OfferingID: offeringID,
		Date:       date,
		Time:       startTime,
	})
	if err != nil {
		return 0, err
	}

	price := calc.FinalPriceCents
	switch special.ModifierType {
	case ruledomain.ModifierTypePercentage:
		price += int64(math.Round(float64(price) * special.PriceModifier / 100))
	default:
		price += int64(math.Round(special.PriceModifier))
	}
	if price < 0 {
		price = 0
	}
	return price, nil
}

// Check answers whether the offering can absorb the requested quantity on the
// requested date, and suggests the nearest future slots when it cannot. The
// existence answer and the suggestion list come from the same forward scan so
// they can never disagree.
func (s *Service) Check(ctx context.Context, req domain.CheckRequest) (*domain.CheckResult, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	date, err := time.ParseInLocation(ruledomain.DateLayout, strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	windowStart := strings.TrimSpace(req.StartTime)
	windowEnd := strings.TrimSpace(req.EndTime)
	for _, t := range []string{windowStart, windowEnd} {
		if t == "" {
			continue
		}
		if _, err := time.Parse(ruledomain.TimeLayout, t); err != nil {
			return nil, domain.ErrInvalidTime
		}
	}

	slots, err := s.repo.ListByDate(ctx, s.db, tenantID, offeringID, date)
	if err != nil {
		s.log.Error("availability check failed", zap.Error(err))
		return nil, domain.ErrCheckFailed
	}

	matching := make([]domain.SlotView, 0, len(slots))
	for i := range slots {
		slot := &slots[i]
		// The slot must lie fully inside the requested window.
		if windowStart != "" && slot.StartTime < windowStart {
			continue
		}
		if windowEnd != "" && slot.EndTime > windowEnd {
			continue
		}
		if slot.AvailableCapacity() < quantity {
			continue
		}
		matching = append(matching, toSlotView(slot))
	}

	if len(matching) > 0 {
		return &domain.CheckResult{IsAvailable: true, Slots: matching}, nil
	}

	future, err := s.repo.FindNextAvailable(ctx, s.db, tenantID, offeringID, date, quantity, alternativesLimit)
	if err != nil {
		s.log.Error("availability forward scan failed", zap.Error(err))
		return nil, domain.ErrCheckFailed
	}

	result := &domain.CheckResult{IsAvailable: false, Slots: []domain.SlotView{}}
	if len(future) > 0 {
		next := future[0].Date.Format(ruledomain.DateLayout)
		result.NextAvailableDate = &next
		result.SuggestedAlternatives = make([]domain.SlotView, 0, len(future))
		for i := range future {
			result.SuggestedAlternatives = append(result.SuggestedAlternatives, toSlotView(&future[i]))
		}
	}
	return result, nil
}

func (s *Service) ListSlots(ctx context.Context, req domain.ListRequest) ([]domain.SlotView, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.ListRange(ctx, s.db, tenantID, offeringID, start, end)
	if err != nil {
		return nil, err
	}

	views := make([]domain.SlotView, 0, len(slots))
	for i := range slots {
		views = append(views, toSlotView(&slots[i]))
	}
	return views, nil
}

// UpdateSlotBooking is the single mutation point for booked_count. The
// capacity invariant is enforced by the storage layer in one conditional
// UPDATE, so concurrent bookings cannot race past the check.
func (s *Service) UpdateSlotBooking(ctx context.Context, req domain.BookRequest) (*domain.SlotView, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	offeringID, err := snowflake.ParseString(strings.TrimSpace(req.OfferingID))
	if err != nil {
		return nil, domain.ErrInvalidOffering
	}

	date, err := time.ParseInLocation(ruledomain.DateLayout, strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	startTime := strings.TrimSpace(req.StartTime)
	if _, err := time.Parse(ruledomain.TimeLayout, startTime); err != nil {
		return nil, domain.ErrInvalidTime
	}

	slot, err := s.repo.FindByNaturalKey(ctx, s.db, tenantID, offeringID, date, startTime)
	if err != nil {
		s.log.Error("slot lookup failed", zap.Error(err))
		return nil, domain.ErrBookingUpdateFailed
	}
	if slot == nil {
		s.bookings.Rejected("slot_not_found")
		return nil, domain.ErrSlotNotFound
	}

	now := s.clock.Now().UTC()
	rows, err := s.repo.UpdateBookedCount(ctx, s.db, tenantID, offeringID, date, startTime, req.Delta, now)
	if err != nil {
		s.log.Error("booking update failed", zap.Error(err))
		return nil, domain.ErrBookingUpdateFailed
	}
	if rows == 0 {
		// The slot exists, so zero affected rows means the delta would
		// have pushed booked_count outside [0, capacity].
		s.bookings.Rejected("invalid_booking_count")
		return nil, domain.ErrInvalidBookingCount
	}

	updated, err := s.repo.FindByNaturalKey(ctx, s.db, tenantID, offeringID, date, startTime)
	if err != nil || updated == nil {
		s.log.Error("slot re-read failed", zap.Error(err))
		return nil, domain.ErrBookingUpdateFailed
	}

	s.bookings.Accepted()
	s.log.Info("slot booking updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("offering_id", offeringID.String()),
		zap.String("date", req.Date),
		zap.String("start_time", startTime),
		zap.Int("delta", req.Delta),
		zap.Int("booked_count", updated.BookedCount),
	)

	view := toSlotView(updated)
	return &view, nil
}

func toSlotView(slot *domain.AvailabilitySlot) domain.SlotView {
	return domain.SlotView{
		ID:                slot.ID.String(),
		Date:              slot.Date.Format(ruledomain.DateLayout),
		StartTime:         slot.StartTime,
		EndTime:           slot.EndTime,
		Capacity:          slot.Capacity,
		BookedCount:       slot.BookedCount,
		AvailableCapacity: slot.AvailableCapacity(),
		IsAvailable:       slot.IsAvailable,
		PriceCents:        slot.PriceCents,
	}
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(ruledomain.DateLayout, strings.TrimSpace(startDate), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	end, err := time.ParseInLocation(ruledomain.DateLayout, strings.TrimSpace(endDate), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return start, end, nil
}

func validateTemplate(slots []domain.TemplateSlot) error {
	if len(slots) == 0 {
		return domain.ErrInvalidTemplate
	}
	for _, tpl := range slots {
		if tpl.DayOfWeek < 0 || tpl.DayOfWeek > 6 {
			return domain.ErrInvalidTemplate
		}
		if _, err := time.Parse(ruledomain.TimeLayout, tpl.StartTime); err != nil {
			return domain.ErrInvalidTemplate
		}
		if _, err := time.Parse(ruledomain.TimeLayout, tpl.EndTime); err != nil {
			return domain.ErrInvalidTemplate
		}
		if tpl.EndTime <= tpl.StartTime {
			return domain.ErrInvalidTemplate
		}
		if tpl.Capacity <= 0 {
			return domain.ErrInvalidTemplate
		}
	}
	return nil
}
