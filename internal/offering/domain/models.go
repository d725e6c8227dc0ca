package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Offering is a tenant's bookable or sellable item: a menu item, a treatment,
// a service, a product.
type Offering struct {
	ID             snowflake.ID      `json:"id" gorm:"primaryKey"`
	TenantID       snowflake.ID      `json:"tenant_id" gorm:"column:tenant_id;not null;index"`
	Name           string            `json:"name" gorm:"type:text;not null"`
	Description    *string           `json:"description,omitempty" gorm:"type:text"`
	BasePriceCents int64             `json:"base_price_cents" gorm:"not null"`
	Currency       *string           `json:"currency,omitempty" gorm:"type:text"`
	Active         bool              `json:"active" gorm:"not null;default:true"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Offering) TableName() string { return "offerings" }

// OfferingVariant is a named variation of an offering whose price modifier is
// added to the offering base price during calculation.
type OfferingVariant struct {
	ID                 snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID           snowflake.ID `json:"tenant_id" gorm:"column:tenant_id;not null;index"`
	OfferingID         snowflake.ID `json:"offering_id" gorm:"not null;index"`
	Name               string       `json:"name" gorm:"type:text;not null"`
	PriceModifierCents int64        `json:"price_modifier_cents" gorm:"not null;default:0"`
	Active             bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt          time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OfferingVariant) TableName() string { return "offering_variants" }
