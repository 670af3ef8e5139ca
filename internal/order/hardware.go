package order

import (
	"context"
	"strings"

	"github.com/fekuna/printfarm-inventory-service/internal/apperror"
	"github.com/fekuna/printfarm-inventory-service/internal/inventory"
	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/fekuna/printfarm-inventory-service/internal/order/dto"
)

// BuildHardwareLines validates line inputs and freezes the unit cost and
// names of stock items. One-off lines carry their own price.
func BuildHardwareLines(ctx context.Context, repo inventory.Repository, in []dto.HardwareLineInput) ([]model.OrderHardware, error) {
	lines := make([]model.OrderHardware, 0, len(in))
	for i, l := range in {
		if l.Quantity <= 0 {
			return nil, apperror.Validation("hardware", "line %d needs a positive quantity", i+1)
		}

		if l.IsOneOff {
			if l.OneOffName == nil || strings.TrimSpace(*l.OneOffName) == "" {
				return nil, apperror.Validation("hardware", "one-off line %d needs a name", i+1)
			}
			var price float64
			if l.OneOffCost != nil {
				price = *l.OneOffCost
			}
			if price < 0 {
				return nil, apperror.Validation("hardware", "one-off line %d has a negative cost", i+1)
			}
			lines = append(lines, model.OrderHardware{
				Quantity:         l.Quantity,
				UnitCostSnapshot: price,
				NameSnapshot:     l.OneOffName,
				IsOneOff:         true,
				OneOffName:       l.OneOffName,
				OneOffCost:       model.Ptr(price),
			})
			continue
		}

		if l.HardwareItemID == nil {
			return nil, apperror.Validation("hardware", "line %d needs a hardware item", i+1)
		}
		item, err := repo.GetHardware(ctx, *l.HardwareItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.NotFound("hardware item", *l.HardwareItemID)
		}
		lines = append(lines, model.OrderHardware{
			HardwareItemID:   model.Ptr(item.ID),
			Quantity:         l.Quantity,
			UnitCostSnapshot: item.CostPerItem(),
			NameSnapshot:     model.Ptr(item.Name),
			BrandSnapshot:    item.Brand,
		})
	}
	return lines, nil
}

// ProjectHardwareLines turns a project's hardware requirements into order
// line inputs.
func ProjectHardwareLines(p *model.Project) []dto.HardwareLineInput {
	out := make([]dto.HardwareLineInput, 0, len(p.Hardware))
	for _, h := range p.Hardware {
		out = append(out, dto.HardwareLineInput{
			HardwareItemID: model.Ptr(h.HardwareItemID),
			Quantity:       h.Quantity,
		})
	}
	return out
}

// ApplyProjectSnapshot copies the project's consumption figures onto o.
func ApplyProjectSnapshot(o *model.Order, p *model.Project) {
	if p == nil {
		o.FilamentGramsSnapshot = nil
		o.PrintTimeHoursSnapshot = nil
		return
	}
	o.FilamentGramsSnapshot = model.Ptr(p.FilamentGrams)
	o.PrintTimeHoursSnapshot = model.Ptr(p.PrintTimeHours)
}
