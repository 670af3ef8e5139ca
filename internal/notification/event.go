// Package notification delivers outbound events after a transaction has
// committed. Delivery failures are logged and never reach the caller.
package notification

import (
	"fmt"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"github.com/google/uuid"
)

// Event is the payload sent to webhook receivers. Content is a readable
// summary compatible with chat webhooks; Data holds the structured fields.
type Event struct {
	ID         string                 `json:"event_id"`
	Type       string                 `json:"event"`
	Key        string                 `json:"-"`
	Content    string                 `json:"content"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"timestamp"`
}

func newEvent(eventType, key, content string, data map[string]interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Key:        key,
		Content:    content,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func OrderStatusChanged(o *model.Order, oldStatus, newStatus string) Event {
	content := fmt.Sprintf("Order Status Changed\nOrder: %s\nCustomer: %s\nStatus: %s -> %s",
		o.DisplayName(), o.Customer(), oldStatus, newStatus)
	return newEvent(model.EventOrderStatusChange, fmt.Sprintf("order:%d", o.ID), content, map[string]interface{}{
		"order_id":   o.ID,
		"order_name": o.DisplayName(),
		"customer":   o.Customer(),
		"old_status": oldStatus,
		"new_status": newStatus,
	})
}

func OrderDue(o *model.Order, days int) Event {
	due := ""
	if o.DueDate != nil {
		due = o.DueDate.Format("2006-01-02")
	}
	content := fmt.Sprintf("Order Alert\nOrder: %s\nCustomer: %s\nDue Date: %s\nStatus: %s\n\nThis order is due in %d day(s) and still in '%s' status!",
		o.DisplayName(), o.Customer(), due, o.Status, days, o.Status)
	return newEvent(model.EventOrderDue, fmt.Sprintf("order:%d", o.ID), content, map[string]interface{}{
		"order_id":       o.ID,
		"order_name":     o.DisplayName(),
		"customer":       o.Customer(),
		"due_date":       due,
		"status":         o.Status,
		"days_until_due": days,
	})
}

func LowStock(s *model.Spool) Event {
	content := fmt.Sprintf("Low Stock Alert\nSpool: %s\nRemaining: %.0fg", s.Label(), s.RemainingWeightG)
	return newEvent(model.EventLowStock, fmt.Sprintf("spool:%d", s.ID), content, map[string]interface{}{
		"spool_id":           s.ID,
		"label":              s.Label(),
		"remaining_weight_g": s.RemainingWeightG,
		"tracking_id":        s.TrackingID,
	})
}

// LowStockSpools returns the spools whose movements crossed from at or above
// threshold to below it. Alerts disabled in settings yield nothing.
func LowStockSpools(settings model.AppSettings, movements []model.StockMovement) []int64 {
	if !settings.EnableLowSpoolAlerts {
		return nil
	}
	var ids []int64
	seen := map[int64]bool{}
	for _, m := range movements {
		if m.ResourceKind != model.ResourceSpool || seen[m.ResourceID] {
			continue
		}
		if m.QuantityBefore >= settings.LowSpoolThresholdG && m.QuantityAfter < settings.LowSpoolThresholdG {
			seen[m.ResourceID] = true
			ids = append(ids, m.ResourceID)
		}
	}
	return ids
}
