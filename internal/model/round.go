package model

import "github.com/shopspring/decimal"

// Round rounds half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
