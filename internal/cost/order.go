package cost

import (
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

type OrderProfit struct {
	Revenue          float64 `json:"revenue"`
	ShippingRevenue  float64 `json:"shipping_revenue"`
	FilamentCost     float64 `json:"filament_cost"`
	HardwareCost     float64 `json:"hardware_cost"`
	ElectricityCost  float64 `json:"electricity_cost"`
	TimeCost         float64 `json:"time_cost"`
	DepreciationCost float64 `json:"depreciation_cost"`
	TotalCost        float64 `json:"total_cost"`
	Profit           float64 `json:"profit"`
	CurrencySymbol   string  `json:"currency_symbol"`
}

type orderCosts struct {
	filament decimal.Decimal
	hardware decimal.Decimal
	machine  machine
}

func (c orderCosts) total() decimal.Decimal {
	return c.filament.Add(c.hardware).Add(c.machine.electricity).Add(c.machine.time).Add(c.machine.depreciation)
}

// Only snapshots are used, so repricing a spool or part never changes the
// margin of an existing order.
func computeOrderCosts(o *model.Order, s model.AppSettings) orderCosts {
	var c orderCosts
	for _, a := range o.Spools {
		c.filament = c.filament.Add(materialCost(a.Grams, a.CostPerKgSnapshot))
	}
	for i := range o.Hardware {
		c.hardware = c.hardware.Add(decimal.NewFromFloat(o.Hardware[i].UnitCostSnapshot).Mul(decimal.NewFromInt(int64(o.Hardware[i].Quantity))))
	}
	if o.PrintTimeHoursSnapshot != nil && *o.PrintTimeHoursSnapshot > 0 {
		c.machine = machineCosts(decimal.NewFromFloat(*o.PrintTimeHoursSnapshot), s)
	}
	return c
}

func orderRevenue(o *model.Order) (decimal.Decimal, decimal.Decimal) {
	revenue := decimal.Zero
	if o.QuotedPrice != nil {
		revenue = decimal.NewFromFloat(*o.QuotedPrice)
	}
	return revenue, decimal.NewFromFloat(o.ShippingCharge)
}

// OrderCost is the unrounded total cost of o.
func OrderCost(o *model.Order, s model.AppSettings) float64 {
	f, _ := computeOrderCosts(o, s).total().Float64()
	return f
}

func CalculateOrderProfit(o *model.Order, s model.AppSettings) OrderProfit {
	c := computeOrderCosts(o, s)
	revenue, shipping := orderRevenue(o)
	total := c.total()

	return OrderProfit{
		Revenue:          money(revenue),
		ShippingRevenue:  money(shipping),
		FilamentCost:     money(c.filament),
		HardwareCost:     money(c.hardware),
		ElectricityCost:  money(c.machine.electricity),
		TimeCost:         money(c.machine.time),
		DepreciationCost: money(c.machine.depreciation),
		TotalCost:        money(total),
		Profit:           money(revenue.Add(shipping).Sub(total)),
		CurrencySymbol:   s.CurrencySymbol,
	}
}

type Summary struct {
	TotalOrders    int     `json:"total_orders"`
	OrderedOrders  int     `json:"ordered_orders"`
	PrintedOrders  int     `json:"printed_orders"`
	FinishedOrders int     `json:"finished_orders"`
	SoldOrders     int     `json:"sold_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalCost      float64 `json:"total_cost"`
	TotalProfit    float64 `json:"total_profit"`
	CurrencySymbol string  `json:"currency_symbol"`
}

// Summarize counts orders per status and totals revenue and cost of the
// sold ones.
func Summarize(orders []model.Order, s model.AppSettings) Summary {
	out := Summary{CurrencySymbol: s.CurrencySymbol}
	revenue, costs := decimal.Zero, decimal.Zero
	for i := range orders {
		o := &orders[i]
		out.TotalOrders++
		switch o.Status {
		case model.OrderOrdered:
			out.OrderedOrders++
		case model.OrderPrinted:
			out.PrintedOrders++
		case model.OrderFinished:
			out.FinishedOrders++
		case model.OrderSold:
			out.SoldOrders++
			r, sh := orderRevenue(o)
			revenue = revenue.Add(r).Add(sh)
			costs = costs.Add(computeOrderCosts(o, s).total())
		}
	}
	out.TotalRevenue = money(revenue)
	out.TotalCost = money(costs)
	out.TotalProfit = money(revenue.Sub(costs))
	return out
}

// ProductCost prices one product on hand from its print job allocations and
// the project's hardware at current catalogue prices.
func ProductCost(job *model.PrintJob, hardware []model.ProjectHardware, items map[int64]*model.HardwareItem) float64 {
	total := decimal.Zero
	for _, a := range job.Spools {
		total = total.Add(materialCost(a.Grams, a.CostPerKgSnapshot))
	}
	for _, h := range hardware {
		if it, ok := items[h.HardwareItemID]; ok {
			total = total.Add(decimal.NewFromFloat(it.CostPerItem()).Mul(decimal.NewFromInt(int64(h.Quantity))))
		}
	}
	return money(total)
}
