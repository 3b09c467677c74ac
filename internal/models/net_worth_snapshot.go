package models

import (
	"time"

	"finboard/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NetWorthSnapshot represents a point-in-time record of a user's net worth.
// Snapshots are append-only, so there is no Base embed and no soft delete.
type NetWorthSnapshot struct {
	ID               string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string          `gorm:"type:uuid;not null;index" json:"user_id"`
	RecordedAt       time.Time       `gorm:"not null" json:"recorded_at"`
	TotalAssets      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"total_assets"`
	TotalLiabilities decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"total_liabilities"`
	NetWorth         decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"net_worth"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (n *NetWorthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New()
	}
	return nil
}
