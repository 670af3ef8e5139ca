package inventory

import (
	"context"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

// AllocationInput is one requested spool draw as supplied by a caller.
// Position 0 means "next free slot".
type AllocationInput struct {
	SpoolID  int64   `json:"spool_id"`
	Grams    float64 `json:"grams"`
	Position int     `json:"position"`
}

// LegacyAllocation translates the single spool/amount shape into the
// canonical one-entry list.
func LegacyAllocation(spoolID *int64, grams float64) []AllocationInput {
	if spoolID == nil {
		return nil
	}
	return []AllocationInput{{SpoolID: *spoolID, Grams: grams, Position: 1}}
}

// NormalizeAllocations checks the list shape and fills unset positions.
func NormalizeAllocations(in []AllocationInput) ([]AllocationInput, error) {
	if len(in) > model.MaxAllocations {
		return nil, apperror.Validation("spools", "at most %d spools allowed, got %d", model.MaxAllocations, len(in))
	}

	out := make([]AllocationInput, len(in))
	used := make(map[int]bool, len(in))
	for i, a := range in {
		if a.SpoolID <= 0 {
			return nil, apperror.Validation("spools", "entry %d has no spool", i+1)
		}
		if a.Grams < 0 {
			return nil, apperror.Validation("spools", "entry %d has negative grams", i+1)
		}
		if a.Position != 0 {
			if a.Position < 1 || a.Position > model.MaxAllocations {
				return nil, apperror.Validation("spools", "position %d out of range 1-%d", a.Position, model.MaxAllocations)
			}
			if used[a.Position] {
				return nil, apperror.Validation("spools", "duplicate position %d", a.Position)
			}
			used[a.Position] = true
		}
		out[i] = a
	}

	next := 1
	for i := range out {
		if out[i].Position != 0 {
			continue
		}
		for used[next] {
			next++
		}
		out[i].Position = next
		used[next] = true
	}
	return out, nil
}

// Snapshot freezes the spool's cost into each allocation. Every spool must be
// present in spools.
func Snapshot(in []AllocationInput, spools map[int64]*model.Spool) (model.Allocations, error) {
	out := make(model.Allocations, 0, len(in))
	for _, a := range in {
		sp, ok := spools[a.SpoolID]
		if !ok {
			return nil, apperror.NotFound("spool", a.SpoolID)
		}
		out = append(out, model.SpoolAllocation{
			SpoolID:           a.SpoolID,
			Grams:             a.Grams,
			Position:          a.Position,
			CostPerKgSnapshot: sp.CostPerKg(),
		})
	}
	return out, nil
}

func AllocationUsages(in []AllocationInput) []model.Usage {
	out := make([]model.Usage, 0, len(in))
	for _, a := range in {
		out = append(out, model.Usage{ResourceID: a.SpoolID, Amount: a.Grams})
	}
	return out
}

// ResolveAllocations normalizes in, loads the referenced spools and freezes
// their cost. A missing spool is NotFound.
func ResolveAllocations(ctx context.Context, repo Repository, in []AllocationInput) (model.Allocations, error) {
	norm, err := NormalizeAllocations(in)
	if err != nil {
		return nil, err
	}
	if len(norm) == 0 {
		return model.Allocations{}, nil
	}
	spools, err := repo.GetSpoolsByIDs(ctx, ResourceIDs(AllocationUsages(norm)))
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Spool, len(spools))
	for i := range spools {
		byID[spools[i].ID] = &spools[i]
	}
	return Snapshot(norm, byID)
}
