package inventory

import (
	"math"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

// Policy controls how strictly a resource kind is checked.
type Policy struct {
	Reserve float64
	Enforce bool
}

// SpoolPolicy derives the spool policy from settings.
func SpoolPolicy(s model.AppSettings) Policy {
	return Policy{Reserve: s.MinimumSpoolReserveG, Enforce: s.EnableSpoolNegativePrevention}
}

// HardwarePolicy is always enforced and keeps no reserve.
var HardwarePolicy = Policy{Reserve: 0, Enforce: true}

// Stock is the current ledger value of one resource.
type Stock struct {
	ID         int64
	Label      string
	TrackingID *string
	Remaining  float64
}

// Validate checks usages against stocks without touching storage. Demand for
// the same resource is summed before it is compared, and shortages keep the
// order in which resources first appear. Resources missing from stocks are
// skipped.
func Validate(p Policy, stocks map[int64]Stock, usages []model.Usage) []model.Shortage {
	if !p.Enforce {
		return nil
	}

	order := make([]int64, 0, len(usages))
	demand := make(map[int64]float64, len(usages))
	for _, u := range usages {
		if _, seen := demand[u.ResourceID]; !seen {
			order = append(order, u.ResourceID)
		}
		demand[u.ResourceID] += u.Amount
	}

	var shortages []model.Shortage
	for _, id := range order {
		st, ok := stocks[id]
		if !ok {
			continue
		}
		requested := demand[id]
		usable := st.Remaining - p.Reserve
		if usable-requested >= 0 {
			continue
		}
		shortages = append(shortages, model.Shortage{
			ResourceID:     st.ID,
			Label:          st.Label,
			TrackingID:     st.TrackingID,
			Current:        st.Remaining,
			Requested:      requested,
			Resulting:      st.Remaining - requested,
			ShortageAmount: math.Max(0, requested-st.Remaining),
			WithinReserve:  st.Remaining >= requested,
		})
	}
	return shortages
}

// ClampDeduct applies one deduction to a spool. With negative prevention on
// the result never drops below zero.
func ClampDeduct(remaining, amount float64, prevent bool) float64 {
	if prevent {
		return math.Max(0, remaining-amount)
	}
	return remaining - amount
}

// SpoolStocks indexes spools for Validate.
func SpoolStocks(spools []model.Spool) map[int64]Stock {
	out := make(map[int64]Stock, len(spools))
	for i := range spools {
		s := &spools[i]
		out[s.ID] = Stock{ID: s.ID, Label: s.Label(), TrackingID: s.TrackingID, Remaining: s.RemainingWeightG}
	}
	return out
}

// HardwareStocks indexes hardware items for Validate.
func HardwareStocks(items []model.HardwareItem) map[int64]Stock {
	out := make(map[int64]Stock, len(items))
	for i := range items {
		h := &items[i]
		out[h.ID] = Stock{ID: h.ID, Label: h.Label(), Remaining: float64(h.QuantityInStock)}
	}
	return out
}

// ResourceIDs returns the distinct resource ids in usages.
func ResourceIDs(usages []model.Usage) []int64 {
	seen := make(map[int64]struct{}, len(usages))
	ids := make([]int64, 0, len(usages))
	for _, u := range usages {
		if _, ok := seen[u.ResourceID]; ok {
			continue
		}
		seen[u.ResourceID] = struct{}{}
		ids = append(ids, u.ResourceID)
	}
	return ids
}
