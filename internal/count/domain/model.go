package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Phase identifies which of the two daily counts an entry belongs to.
type Phase string

const (
	PhaseInitial Phase = "initial"
	PhaseFinal   Phase = "final"
)

func (p Phase) Valid() bool {
	return p == PhaseInitial || p == PhaseFinal
}

type Entry struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	Phase       Phase           `json:"phase" gorm:"type:text;not null"`
	ProductName string          `json:"product_name" gorm:"type:text;not null"`
	ProductCode string          `json:"product_code" gorm:"type:text;not null;default:''"`
	Category    string          `json:"category" gorm:"type:text;not null;default:'General'"`
	DateKey     string          `json:"date" gorm:"column:date_key;type:text;not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	Unit        string          `json:"unit" gorm:"type:text;not null;default:unidad"`
	Note        string          `json:"note" gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "count_entries" }
