package lifecycle

import (
	"reflect"
	"testing"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

func TestPlan(t *testing.T) {
	var (
		consume = []Effect{Validate, Deduct}
		swap    = []Effect{Restore, Validate, Deduct}
		give    = []Effect{Restore}
	)

	tests := []struct {
		name string
		tr   Transition
		want []Effect
	}{
		// print jobs
		{"job created completed", Transition{Kind: KindPrintJob, From: None, To: model.PrintJobCompleted}, consume},
		{"job created failed", Transition{Kind: KindPrintJob, From: None, To: model.PrintJobFailed}, nil},
		{"completed job deleted", Transition{Kind: KindPrintJob, From: model.PrintJobCompleted, To: None}, give},
		{"cancelled job deleted", Transition{Kind: KindPrintJob, From: model.PrintJobCancelled, To: None}, nil},
		{"status edit alone", Transition{Kind: KindPrintJob, From: model.PrintJobCompleted, To: model.PrintJobFailed}, nil},
		{"failed to completed alone", Transition{Kind: KindPrintJob, From: model.PrintJobFailed, To: model.PrintJobCompleted}, nil},
		{"completed lines replaced", Transition{Kind: KindPrintJob, From: model.PrintJobCompleted, To: model.PrintJobCompleted, Replaced: true}, swap},
		{"replaced and failed", Transition{Kind: KindPrintJob, From: model.PrintJobCompleted, To: model.PrintJobFailed, Replaced: true}, give},
		{"replaced and completed", Transition{Kind: KindPrintJob, From: model.PrintJobFailed, To: model.PrintJobCompleted, Replaced: true}, consume},
		{"failed lines replaced", Transition{Kind: KindPrintJob, From: model.PrintJobFailed, To: model.PrintJobCancelled, Replaced: true}, nil},

		// orders
		{"order created finished", Transition{Kind: KindOrder, From: None, To: model.OrderFinished}, consume},
		{"order created ordered", Transition{Kind: KindOrder, From: None, To: model.OrderOrdered}, nil},
		{"order finished", Transition{Kind: KindOrder, From: model.OrderPrinted, To: model.OrderFinished}, consume},
		{"finished order reopened", Transition{Kind: KindOrder, From: model.OrderFinished, To: model.OrderPrinted}, give},
		{"finished order sold", Transition{Kind: KindOrder, From: model.OrderFinished, To: model.OrderSold}, give},
		{"finished hardware replaced", Transition{Kind: KindOrder, From: model.OrderFinished, To: model.OrderFinished, Replaced: true}, swap},
		{"finished untouched", Transition{Kind: KindOrder, From: model.OrderFinished, To: model.OrderFinished}, nil},
		{"ordered hardware replaced", Transition{Kind: KindOrder, From: model.OrderOrdered, To: model.OrderOrdered, Replaced: true}, nil},
		{"finished order deleted", Transition{Kind: KindOrder, From: model.OrderFinished, To: None}, give},
		{"sold order deleted", Transition{Kind: KindOrder, From: model.OrderSold, To: None}, nil},

		// products on hand
		{"product assembled", Transition{Kind: KindProductOnHand, From: model.ProductPrinted, To: model.ProductCompleted}, consume},
		{"product reopened", Transition{Kind: KindProductOnHand, From: model.ProductCompleted, To: model.ProductPrinted}, nil},
		{"product created", Transition{Kind: KindProductOnHand, From: None, To: model.ProductCompleted}, nil},

		{"unknown kind", Transition{Kind: "spool", From: None, To: "x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.tr)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan(%+v) = %v, want %v", tt.tr, got, tt.want)
			}
		})
	}
}

func TestEffectString(t *testing.T) {
	if Restore.String() != "restore" || Validate.String() != "validate" || Deduct.String() != "deduct" {
		t.Error("unexpected effect names")
	}
	if Effect(0).String() != "unknown" {
		t.Error("zero effect should be unknown")
	}
}
