package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Record struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	Category        string          `json:"category" gorm:"type:text;not null;default:'General'"`
	ProductName     string          `json:"product_name" gorm:"type:text;not null"`
	ProductCode     string          `json:"product_code" gorm:"type:text;not null;default:''"`
	DateKey         string          `json:"date" gorm:"column:date_key;type:text;not null"`
	CurrentQuantity decimal.Decimal `json:"current_quantity" gorm:"type:decimal(20,4);not null"`
	Threshold       decimal.Decimal `json:"threshold" gorm:"type:decimal(20,4);not null"`
	Unit            string          `json:"unit" gorm:"type:text;not null;default:unidad"`
	Automatic       bool            `json:"automatic" gorm:"not null;default:false"`
	Resolved        bool            `json:"resolved" gorm:"not null;default:false"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Record) TableName() string { return "shortage_records" }

// Describe renders the operator-facing shortage line, e.g. "Tomate (2/4 kg)".
func Describe(name string, current, threshold decimal.Decimal, unit string) string {
	return fmt.Sprintf("%s (%s/%s %s)", name, current.String(), threshold.String(), unit)
}
