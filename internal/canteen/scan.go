package canteen

import (
	"encoding/json"
	"strings"
)

// scanPayload is the JSON a pickup ticket encodes.
type scanPayload struct {
	OrderID string `json:"orderId"`
}

// DecodeScanPayload extracts an order id from a scanned ticket. Tickets
// normally carry {"orderId":"ORD-…"}; anything that does not parse that way
// is treated as a literal order id so that plain-text tickets keep working.
func DecodeScanPayload(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrInvalidScanPayload
	}
	var decoded scanPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err == nil && decoded.OrderID != "" {
		return decoded.OrderID, nil
	}
	return payload, nil
}

// ServeScanned resolves a scanned ticket and serves the matching order.
// An unknown id is ErrOrderNotFound and an already-served order is
// ErrAlreadyServed; both are expected counter-side conditions, not faults.
func (s *Service) ServeScanned(payload string) (string, error) {
	orderID, err := DecodeScanPayload(payload)
	if err != nil {
		return "", err
	}

	order, ok := s.Order(orderID)
	if !ok {
		return orderID, ErrOrderNotFound
	}
	if !order.Pending() {
		return orderID, ErrAlreadyServed
	}
	return orderID, s.MarkServed(orderID)
}
