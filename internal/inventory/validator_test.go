package inventory

import (
	"testing"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

func TestValidate(t *testing.T) {
	stocks := map[int64]Stock{
		1: {ID: 1, Label: "PLA Black", Remaining: 100},
		2: {ID: 2, Label: "PETG Red", Remaining: 50},
	}
	spool := Policy{Reserve: 5, Enforce: true}

	tests := []struct {
		name   string
		policy Policy
		usages []model.Usage
		want   []model.Shortage
	}{
		{
			name:   "fits above reserve",
			policy: spool,
			usages: []model.Usage{{ResourceID: 1, Amount: 95}},
		},
		{
			name:   "eats into reserve",
			policy: spool,
			usages: []model.Usage{{ResourceID: 1, Amount: 96}},
			want: []model.Shortage{{
				ResourceID: 1, Label: "PLA Black", Current: 100, Requested: 96,
				Resulting: 4, ShortageAmount: 0, WithinReserve: true,
			}},
		},
		{
			name:   "beyond stock",
			policy: spool,
			usages: []model.Usage{{ResourceID: 2, Amount: 60}},
			want: []model.Shortage{{
				ResourceID: 2, Label: "PETG Red", Current: 50, Requested: 60,
				Resulting: -10, ShortageAmount: 10, WithinReserve: false,
			}},
		},
		{
			name:   "demand summed per resource",
			policy: spool,
			usages: []model.Usage{{ResourceID: 2, Amount: 30}, {ResourceID: 1, Amount: 10}, {ResourceID: 2, Amount: 20}},
			want: []model.Shortage{{
				ResourceID: 2, Label: "PETG Red", Current: 50, Requested: 50,
				Resulting: 0, ShortageAmount: 0, WithinReserve: true,
			}},
		},
		{
			name:   "not enforced",
			policy: Policy{Reserve: 5},
			usages: []model.Usage{{ResourceID: 2, Amount: 500}},
		},
		{
			name:   "unknown resource skipped",
			policy: spool,
			usages: []model.Usage{{ResourceID: 9, Amount: 500}},
		},
		{
			name:   "hardware has no reserve",
			policy: HardwarePolicy,
			usages: []model.Usage{{ResourceID: 2, Amount: 50}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.policy, stocks, tt.usages)
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("shortage %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateKeepsFirstSeenOrder(t *testing.T) {
	stocks := map[int64]Stock{1: {ID: 1, Remaining: 1}, 2: {ID: 2, Remaining: 1}}
	got := Validate(HardwarePolicy, stocks, []model.Usage{{ResourceID: 2, Amount: 3}, {ResourceID: 1, Amount: 3}})
	if len(got) != 2 || got[0].ResourceID != 2 || got[1].ResourceID != 1 {
		t.Errorf("Validate() order = %+v", got)
	}
}

func TestClampDeduct(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
		amount    float64
		prevent   bool
		want      float64
	}{
		{"normal", 100, 30, true, 70},
		{"clamped", 20, 50, true, 0},
		{"negative allowed", 20, 50, false, -30},
		{"negative amount returns stock", 40, -10, true, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDeduct(tt.remaining, tt.amount, tt.prevent); got != tt.want {
				t.Errorf("ClampDeduct() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStocksAndIDs(t *testing.T) {
	spools := SpoolStocks([]model.Spool{{ID: 4, FilamentType: "PLA", RemainingWeightG: 12, TrackingID: model.Ptr("PLA04")}})
	if st := spools[4]; st.Remaining != 12 || st.Label != "PLA (PLA04)" || *st.TrackingID != "PLA04" {
		t.Errorf("SpoolStocks() = %+v", st)
	}
	hw := HardwareStocks([]model.HardwareItem{{ID: 7, Name: "Bolt", QuantityInStock: 9}})
	if st := hw[7]; st.Remaining != 9 || st.Label != "Bolt" {
		t.Errorf("HardwareStocks() = %+v", st)
	}

	ids := ResourceIDs([]model.Usage{{ResourceID: 3}, {ResourceID: 1}, {ResourceID: 3}})
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Errorf("ResourceIDs() = %v", ids)
	}
}
