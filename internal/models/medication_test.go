package models

import "testing"

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name    string
		current int
		minimum int
		want    string
	}{
		{"well stocked", 100, 20, "IN_STOCK"},
		{"at threshold", 20, 20, "IN_STOCK"},
		{"below threshold", 19, 20, "LOW_STOCK"},
		{"empty", 0, 20, "OUT_OF_STOCK"},
		{"empty with zero threshold", 0, 0, "OUT_OF_STOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Medication{CurrentStock: tt.current, MinimumStock: tt.minimum}
			if got := m.StockStatus(); got != tt.want {
				t.Errorf("StockStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
