package model

// MaxAllocations bounds the number of spools one print job or order may use.
const MaxAllocations = 6

// SpoolAllocation ties an amount of one spool to a consumer. The cost snapshot
// is copied from the spool when the allocation is created and never changes.
type SpoolAllocation struct {
	ID                int64   `db:"id" json:"id"`
	OwnerID           int64   `db:"owner_id" json:"-"`
	SpoolID           int64   `db:"spool_id" json:"spool_id"`
	Grams             float64 `db:"grams" json:"grams"`
	Position          int     `db:"position" json:"position"`
	CostPerKgSnapshot float64 `db:"cost_per_kg_snapshot" json:"cost_per_kg_snapshot"`
}

type Allocations []SpoolAllocation

func (a Allocations) Usages() []Usage {
	out := make([]Usage, 0, len(a))
	for _, al := range a {
		out = append(out, Usage{ResourceID: al.SpoolID, Amount: al.Grams})
	}
	return out
}

func (a Allocations) TotalGrams() float64 {
	var total float64
	for _, al := range a {
		total += al.Grams
	}
	return total
}
