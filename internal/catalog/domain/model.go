package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	Code         string          `json:"code" gorm:"type:text;not null;uniqueIndex:idx_products_code"`
	Name         string          `json:"name" gorm:"type:text;not null"`
	Category     string          `json:"category" gorm:"type:text;not null"`
	Unit         string          `json:"unit" gorm:"type:text;not null;default:unidad"`
	MinThreshold decimal.Decimal `json:"min_threshold" gorm:"type:decimal(20,4);not null;default:0"`
	Active       bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// HasMinimum reports whether the product declares a minimum stock level.
// A zero threshold means the product is never flagged as short.
func (p Product) HasMinimum() bool {
	return p.MinThreshold.IsPositive()
}
