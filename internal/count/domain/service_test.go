package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestUsageSubtractsFinalFromInitial(t *testing.T) {
	initial := IndexByName([]Response{
		{Name: "Tomate perita", Quantity: decimal.NewFromInt(10)},
		{Name: "Palta", Quantity: decimal.NewFromInt(4)},
	})

	used := Usage(initial, Response{Name: "tomate perita", Quantity: decimal.NewFromInt(3)})
	if !used.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected usage 7, got %s", used)
	}
}

func TestUsageIsZeroWithoutInitialEntry(t *testing.T) {
	initial := IndexByName([]Response{
		{Name: "Palta", Quantity: decimal.NewFromInt(4)},
	})

	used := Usage(initial, Response{Name: "Carbón", Quantity: decimal.NewFromInt(2)})
	if !used.IsZero() {
		t.Fatalf("expected zero usage, got %s", used)
	}
}
