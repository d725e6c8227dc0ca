package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, offering *Offering) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Offering, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListRequest) ([]Offering, error)
	Update(ctx context.Context, db *gorm.DB, offering *Offering) error

	CreateVariant(ctx context.Context, db *gorm.DB, variant *OfferingVariant) error
	FindVariants(ctx context.Context, db *gorm.DB, tenantID, offeringID snowflake.ID) ([]OfferingVariant, error)
}
