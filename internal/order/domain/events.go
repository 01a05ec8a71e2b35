package domain

// Outbox event types. The dispatcher maps each type to its topic; the
// placed/cancelled intent travels in the topic name, the payload shape is
// shared.
const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderCancelled = "OrderCancelled"
)

type EventItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// StockAdjustmentEvent tells the inventory side to apply a quantity delta
// for each book of an order. Delivery is at-least-once; consumers dedupe on
// (orderId, bookId, direction).
type StockAdjustmentEvent struct {
	OrderID string      `json:"orderId"`
	Items   []EventItem `json:"items"`
}

func NewStockAdjustment(o Order) StockAdjustmentEvent {
	ev := StockAdjustmentEvent{OrderID: o.ID, Items: make([]EventItem, 0, len(o.Items))}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, EventItem{BookID: it.BookID, Quantity: it.Quantity})
	}
	return ev
}
