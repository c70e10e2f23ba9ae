package models

import "time"

// OrderLine is a cart line frozen at checkout time. Price is a snapshot copy,
// so later menu edits never alter a placed order.
type OrderLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID          string      `json:"id"`
	Items       []OrderLine `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Slot        string      `json:"slot"`
	Status      string      `json:"status"` // Pending or Served, one-way
	User        string      `json:"user"`
	UserID      string      `json:"userId"`
	CreatedAt   time.Time   `json:"createdAt"`
	ServedAt    time.Time   `json:"servedAt,omitempty"`
}

func (o Order) Pending() bool {
	return o.Status == OrderStatusPending
}

// Subtotal returns the line total for a single cart line.
func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartTotal sums the line subtotals of a cart.
func CartTotal(lines []OrderLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Analytics holds the values derived from the order projection. They are
// recomputed on every projection change and never persisted.
type Analytics struct {
	PendingOrders        int     `json:"pending_orders"`
	EstimatedWaitMinutes int     `json:"estimated_wait_minutes"`
	CrowdLevel           string  `json:"crowd_level"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalOrders          int     `json:"total_orders"`
}
