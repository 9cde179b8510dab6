package models

import "testing"

func TestClassifyAvailability(t *testing.T) {
	tests := []struct {
		name         string
		currentStock int
		requested    int
		want         string
	}{
		{"full stock", 100, 10, ItemAvailable},
		{"exact stock", 10, 10, ItemAvailable},
		{"partial stock", 10, 15, ItemPartiallyAvailable},
		{"single unit left", 1, 15, ItemPartiallyAvailable},
		{"no stock", 0, 5, ItemOutOfStock},
		{"negative stock treated as empty", -3, 5, ItemOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyAvailability(tt.currentStock, tt.requested)
			if got != tt.want {
				t.Errorf("ClassifyAvailability(%d, %d) = %q, want %q", tt.currentStock, tt.requested, got, tt.want)
			}
		})
	}
}

func TestApplyDispense(t *testing.T) {
	t.Run("full dispense", func(t *testing.T) {
		item := MedicineDispenseItem{ItemID: "it-1", RequestedQuantity: 10, UnitPrice: 2.5, Status: ItemAvailable}
		if err := item.ApplyDispense(10); err != nil {
			t.Fatalf("ApplyDispense(10) returned error: %v", err)
		}
		if item.DispensedQuantity != 10 {
			t.Errorf("DispensedQuantity = %d, want 10", item.DispensedQuantity)
		}
		if item.TotalPrice != 25.0 {
			t.Errorf("TotalPrice = %v, want 25.0", item.TotalPrice)
		}
		if item.Status != ItemDispensed {
			t.Errorf("Status = %q, want %q", item.Status, ItemDispensed)
		}
	})

	t.Run("partial dispense keeps price consistent", func(t *testing.T) {
		item := MedicineDispenseItem{ItemID: "it-2", RequestedQuantity: 15, UnitPrice: 4.0, Status: ItemPartiallyAvailable}
		if err := item.ApplyDispense(10); err != nil {
			t.Fatalf("ApplyDispense(10) returned error: %v", err)
		}
		if item.Status != ItemPartiallyAvailable {
			t.Errorf("Status = %q, want %q", item.Status, ItemPartiallyAvailable)
		}
		if item.TotalPrice != 40.0 {
			t.Errorf("TotalPrice = %v, want 40.0", item.TotalPrice)
		}

		// Second dispense tops the item up.
		if err := item.ApplyDispense(5); err != nil {
			t.Fatalf("second ApplyDispense(5) returned error: %v", err)
		}
		if item.DispensedQuantity != 15 || item.Status != ItemDispensed {
			t.Errorf("after top-up: DispensedQuantity = %d, Status = %q", item.DispensedQuantity, item.Status)
		}
		if item.TotalPrice != 60.0 {
			t.Errorf("TotalPrice = %v, want 60.0", item.TotalPrice)
		}
	})

	t.Run("over-dispense rejected", func(t *testing.T) {
		item := MedicineDispenseItem{ItemID: "it-3", RequestedQuantity: 5, DispensedQuantity: 3}
		if err := item.ApplyDispense(3); err == nil {
			t.Error("ApplyDispense(3) with only 2 remaining should fail")
		}
		if item.DispensedQuantity != 3 {
			t.Errorf("failed dispense must not mutate item, DispensedQuantity = %d", item.DispensedQuantity)
		}
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		item := MedicineDispenseItem{ItemID: "it-4", RequestedQuantity: 5}
		if err := item.ApplyDispense(0); err == nil {
			t.Error("ApplyDispense(0) should fail")
		}
		if err := item.ApplyDispense(-2); err == nil {
			t.Error("ApplyDispense(-2) should fail")
		}
	})
}

func TestStatusAfterDispense(t *testing.T) {
	tests := []struct {
		name  string
		items []MedicineDispenseItem
		want  string
	}{
		{
			"all items complete",
			[]MedicineDispenseItem{
				{RequestedQuantity: 10, DispensedQuantity: 10},
				{RequestedQuantity: 5, DispensedQuantity: 5},
			},
			DispensePrepared,
		},
		{
			"one item short",
			[]MedicineDispenseItem{
				{RequestedQuantity: 10, DispensedQuantity: 10},
				{RequestedQuantity: 15, DispensedQuantity: 10},
			},
			DispensePartiallyDispensed,
		},
		{
			"nothing dispensed yet",
			[]MedicineDispenseItem{
				{RequestedQuantity: 10, DispensedQuantity: 0},
			},
			DispensePartiallyDispensed,
		},
		{
			"no items",
			nil,
			DispensePrepared,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusAfterDispense(tt.items)
			if got != tt.want {
				t.Errorf("StatusAfterDispense() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	cancellable := map[string]bool{
		DispensePending:            true,
		DispenseProcessing:         true,
		DispensePrepared:           false,
		DispensePartiallyDispensed: false,
		DispenseDispatched:         false,
		DispenseDelivered:          false,
		DispenseCancelled:          false,
	}
	for status, want := range cancellable {
		if got := CanCancel(status); got != want {
			t.Errorf("CanCancel(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestCanDispense(t *testing.T) {
	dispensable := map[string]bool{
		DispensePending:            true,
		DispenseProcessing:         true,
		DispensePartiallyDispensed: true,
		DispensePrepared:           false,
		DispenseDispatched:         false,
		DispenseDelivered:          false,
		DispenseCancelled:          false,
	}
	for status, want := range dispensable {
		if got := CanDispense(status); got != want {
			t.Errorf("CanDispense(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{DispensePending, DispenseProcessing, true},
		{DispensePending, DispenseCancelled, true},
		{DispenseProcessing, DispenseCancelled, true},
		{DispensePrepared, DispenseDispatched, true},
		{DispensePartiallyDispensed, DispenseDispatched, true},
		{DispenseDispatched, DispenseDelivered, true},

		// PREPARED is only reachable through dispensing, never by explicit update.
		{DispensePending, DispensePrepared, false},
		{DispenseProcessing, DispensePrepared, false},
		{DispensePending, DispenseDelivered, false},
		{DispenseDelivered, DispenseDispatched, false},
		{DispenseCancelled, DispensePending, false},
		{DispenseDispatched, DispenseCancelled, false},
		{DispenseDelivered, DispenseCancelled, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidUrgency(t *testing.T) {
	for _, level := range []string{UrgencyNormal, UrgencyUrgent, UrgencyEmergency} {
		if !ValidUrgency(level) {
			t.Errorf("ValidUrgency(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "normal", "CRITICAL"} {
		if ValidUrgency(level) {
			t.Errorf("ValidUrgency(%q) = true, want false", level)
		}
	}
}

func TestValidDispenseStatus(t *testing.T) {
	for _, status := range []string{
		DispensePending, DispenseProcessing, DispensePrepared, DispenseDispatched,
		DispenseDelivered, DispenseCancelled, DispensePartiallyDispensed,
	} {
		if !ValidDispenseStatus(status) {
			t.Errorf("ValidDispenseStatus(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"", "pending", "DONE"} {
		if ValidDispenseStatus(status) {
			t.Errorf("ValidDispenseStatus(%q) = true, want false", status)
		}
	}
}
