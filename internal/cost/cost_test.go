package cost

import (
	"testing"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		grams     float64
		minutes   float64
		costPerKg float64
		want      Breakdown
	}{
		{"two hour print", 100, 120, 25, Breakdown{
			MaterialCost:        2.5,
			ElectricityCost:     0.05,
			TimeCost:            4,
			DepreciationCost:    1,
			FixedFee:            5,
			Subtotal:            12.55,
			ProfitMarginPercent: 5,
			Profit:              0.63,
			Total:               13.18,
			CurrencySymbol:      "$",
		}},
		{"electricity rounds down", 100, 60, 20, Breakdown{
			MaterialCost:        2,
			ElectricityCost:     0.02,
			TimeCost:            2,
			DepreciationCost:    0.5,
			FixedFee:            5,
			Subtotal:            9.52,
			ProfitMarginPercent: 5,
			Profit:              0.48,
			Total:               10,
			CurrencySymbol:      "$",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Calculate(tt.grams, tt.minutes, tt.costPerKg, model.DefaultSettings()); got != tt.want {
				t.Errorf("Calculate() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateOrderProfit(t *testing.T) {
	s := model.DefaultSettings()
	o := &model.Order{
		QuotedPrice:            model.Ptr(30.0),
		ShippingCharge:         5,
		PrintTimeHoursSnapshot: model.Ptr(1.5),
		Spools:                 model.Allocations{{SpoolID: 1, Grams: 200, CostPerKgSnapshot: 20}},
		Hardware: []model.OrderHardware{
			{HardwareItemID: model.Ptr(int64(1)), Quantity: 4, UnitCostSnapshot: 0.5},
			{IsOneOff: true, Quantity: 1, UnitCostSnapshot: 0},
		},
	}

	got := CalculateOrderProfit(o, s)
	want := OrderProfit{
		Revenue:          30,
		ShippingRevenue:  5,
		FilamentCost:     4,
		HardwareCost:     2,
		ElectricityCost:  0.04,
		TimeCost:         3,
		DepreciationCost: 0.75,
		TotalCost:        9.79,
		Profit:           25.21,
		CurrencySymbol:   "$",
	}
	if got != want {
		t.Errorf("CalculateOrderProfit() = %+v\nwant %+v", got, want)
	}
	if c := OrderCost(o, s); c < 9.785 || c > 9.787 {
		t.Errorf("OrderCost() = %v, want 9.786", c)
	}
}

func TestOrderProfitWithoutSnapshots(t *testing.T) {
	got := CalculateOrderProfit(&model.Order{ShippingCharge: 3}, model.DefaultSettings())
	if got.Revenue != 0 || got.TotalCost != 0 || got.Profit != 3 {
		t.Errorf("CalculateOrderProfit() = %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	orders := []model.Order{
		{Status: model.OrderOrdered, QuotedPrice: model.Ptr(99.0)},
		{Status: model.OrderPrinted},
		{Status: model.OrderFinished},
		{Status: model.OrderSold, QuotedPrice: model.Ptr(20.0), ShippingCharge: 2,
			Spools: model.Allocations{{Grams: 100, CostPerKgSnapshot: 30}}},
		{Status: model.OrderSold, QuotedPrice: model.Ptr(10.0)},
	}

	got := Summarize(orders, model.DefaultSettings())
	if got.TotalOrders != 5 || got.OrderedOrders != 1 || got.PrintedOrders != 1 || got.FinishedOrders != 1 || got.SoldOrders != 2 {
		t.Errorf("counts = %+v", got)
	}
	if got.TotalRevenue != 32 || got.TotalCost != 3 || got.TotalProfit != 29 {
		t.Errorf("totals = %+v", got)
	}
}

func TestProductCost(t *testing.T) {
	job := &model.PrintJob{Spools: model.Allocations{{Grams: 100, CostPerKgSnapshot: 25}}}
	hardware := []model.ProjectHardware{
		{HardwareItemID: 1, Quantity: 2},
		{HardwareItemID: 2, Quantity: 9},
	}
	items := map[int64]*model.HardwareItem{
		1: {ID: 1, PurchasePrice: 10, QuantityPurchased: 4},
	}
	if got := ProductCost(job, hardware, items); got != 7.5 {
		t.Errorf("ProductCost() = %v, want 7.5", got)
	}
}
