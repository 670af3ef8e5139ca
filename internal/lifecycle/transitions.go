// Package lifecycle decides and applies the inventory effects of status
// changes on print jobs, orders and products on hand.
package lifecycle

import "github.com/fekuna/printfarm-inventory-service/internal/model"

type EntityKind string

const (
	KindPrintJob      EntityKind = "print_job"
	KindOrder         EntityKind = "order"
	KindProductOnHand EntityKind = "product_on_hand"
)

// Effect is one ledger action. Restore always applies to the lines that were
// in place before the change; Validate and Deduct apply to the new lines.
type Effect int

const (
	Restore Effect = iota + 1
	Validate
	Deduct
)

func (e Effect) String() string {
	switch e {
	case Restore:
		return "restore"
	case Validate:
		return "validate"
	case Deduct:
		return "deduct"
	}
	return "unknown"
}

// None marks creation (as From) or deletion (as To).
const None = ""

// Transition identifies one change of state. Replaced is set when the
// consumption lines were swapped in the same update.
type Transition struct {
	Kind     EntityKind
	From     string
	To       string
	Replaced bool
}

// Plan returns the ordered effects for t. An empty plan means the ledger is
// untouched.
func Plan(t Transition) []Effect {
	switch t.Kind {
	case KindPrintJob:
		return printJobPlan(t)
	case KindOrder:
		return orderPlan(t)
	case KindProductOnHand:
		return productPlan(t)
	}
	return nil
}

// Print jobs consume filament once, when they come into existence as
// completed. Later status edits alone never move stock; only a swap of the
// allocation list does.
func printJobPlan(t Transition) []Effect {
	wasDone := t.From == model.PrintJobCompleted
	isDone := t.To == model.PrintJobCompleted

	switch {
	case t.From == None && isDone:
		return []Effect{Validate, Deduct}
	case t.To == None && wasDone:
		return []Effect{Restore}
	case t.From == None || t.To == None:
		return nil
	case !t.Replaced:
		return nil
	case wasDone && isDone:
		return []Effect{Restore, Validate, Deduct}
	case wasDone:
		return []Effect{Restore}
	case isDone:
		return []Effect{Validate, Deduct}
	}
	return nil
}

// Orders hold hardware while in "finished".
func orderPlan(t Transition) []Effect {
	wasDone := t.From == model.OrderFinished
	isDone := t.To == model.OrderFinished

	switch {
	case t.To == None:
		if wasDone {
			return []Effect{Restore}
		}
		return nil
	case isDone && !wasDone:
		return []Effect{Validate, Deduct}
	case isDone && wasDone && t.Replaced:
		return []Effect{Restore, Validate, Deduct}
	case wasDone && !isDone:
		return []Effect{Restore}
	}
	return nil
}

// Products consume project hardware when assembly completes. The caller
// guards against a second deduction for the same product.
func productPlan(t Transition) []Effect {
	if t.From == model.ProductPrinted && t.To == model.ProductCompleted {
		return []Effect{Validate, Deduct}
	}
	return nil
}
