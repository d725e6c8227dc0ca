package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, rule *PricingRule) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*PricingRule, error)
	// ListActive returns active rules for the offering ordered by
	// (priority ASC, id ASC). Snowflake IDs are monotonic, so the id
	// tie-break preserves creation order deterministically.
	ListActive(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID) ([]PricingRule, error)
	List(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID, includeInactive bool) ([]PricingRule, error)
	Update(ctx context.Context, db *gorm.DB, rule *PricingRule) error
}
