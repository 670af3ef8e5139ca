// Package cost prices print work from settings and frozen snapshots. All
// money values are rounded to two decimals, half away from zero.
package cost

import (
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
	sixty    = decimal.NewFromInt(60)
)

type Breakdown struct {
	MaterialCost        float64 `json:"material_cost"`
	ElectricityCost     float64 `json:"electricity_cost"`
	TimeCost            float64 `json:"time_cost"`
	DepreciationCost    float64 `json:"depreciation_cost"`
	FixedFee            float64 `json:"fixed_fee"`
	Subtotal            float64 `json:"subtotal"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
	Profit              float64 `json:"profit"`
	Total               float64 `json:"total"`
	CurrencySymbol      string  `json:"currency_symbol"`
}

// machine holds the hour-based cost components.
type machine struct {
	electricity  decimal.Decimal
	time         decimal.Decimal
	depreciation decimal.Decimal
}

func machineCosts(hours decimal.Decimal, s model.AppSettings) machine {
	watts := decimal.NewFromFloat(s.PrinterWattage).Div(thousand)
	return machine{
		electricity:  hours.Mul(watts).Mul(decimal.NewFromFloat(s.ElectricityRateKWh)),
		time:         hours.Mul(decimal.NewFromFloat(s.HourlyRate)),
		depreciation: hours.Mul(decimal.NewFromFloat(s.MachineDepreciationRate)),
	}
}

func materialCost(grams, costPerKg float64) decimal.Decimal {
	return decimal.NewFromFloat(grams).Div(thousand).Mul(decimal.NewFromFloat(costPerKg))
}

// Calculate prices a job of grams filament at costPerKg printed for minutes.
func Calculate(grams, minutes, costPerKg float64, s model.AppSettings) Breakdown {
	hours := decimal.NewFromFloat(minutes).Div(sixty)
	m := machineCosts(hours, s)
	material := materialCost(grams, costPerKg)
	fee := decimal.NewFromFloat(s.FixedFeePerOrder)

	subtotal := material.Add(m.electricity).Add(m.time).Add(m.depreciation).Add(fee)
	profit := subtotal.Mul(decimal.NewFromFloat(s.ProfitMarginPercent)).Div(hundred)
	total := subtotal.Add(profit)

	return Breakdown{
		MaterialCost:        money(material),
		ElectricityCost:     money(m.electricity),
		TimeCost:            money(m.time),
		DepreciationCost:    money(m.depreciation),
		FixedFee:            money(fee),
		Subtotal:            money(subtotal),
		ProfitMarginPercent: s.ProfitMarginPercent,
		Profit:              money(profit),
		Total:               money(total),
		CurrencySymbol:      s.CurrencySymbol,
	}
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
