package models

import (
	"fmt"
	"time"
)

// Document is the wire shape of a stored record: an id plus a flat field map.
// Typed decoding with field validation happens here, at the adapter boundary,
// so malformed snapshots are rejected instead of leaking into projections.
type Document struct {
	ID     string
	Fields map[string]any
}

// TimeFormat is how timestamps are persisted in the shared store.
const TimeFormat = time.RFC3339

func (o Order) Document() Document {
	items := make([]any, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, map[string]any{
			"name":     l.Name,
			"price":    l.Price,
			"quantity": l.Quantity,
		})
	}
	fields := map[string]any{
		"items":       items,
		"totalAmount": o.TotalAmount,
		"slot":        o.Slot,
		"status":      o.Status,
		"user":        o.User,
		"userId":      o.UserID,
		"createdAt":   o.CreatedAt.UTC().Format(TimeFormat),
	}
	if !o.ServedAt.IsZero() {
		fields["servedAt"] = o.ServedAt.UTC().Format(TimeFormat)
	}
	return Document{ID: o.ID, Fields: fields}
}

// OrderFromDocument validates and decodes an order snapshot document.
func OrderFromDocument(doc Document) (Order, error) {
	if doc.ID == "" {
		return Order{}, fmt.Errorf("order document without id")
	}
	o := Order{ID: doc.ID}

	var err error
	if o.Status, err = stringField(doc.Fields, "status"); err != nil {
		return Order{}, fmt.Errorf("order %s: %w", doc.ID, err)
	}
	if o.Status != OrderStatusPending && o.Status != OrderStatusServed {
		return Order{}, fmt.Errorf("order %s: unknown status %q", doc.ID, o.Status)
	}
	if o.TotalAmount, err = numberField(doc.Fields, "totalAmount"); err != nil {
		return Order{}, fmt.Errorf("order %s: %w", doc.ID, err)
	}
	if o.CreatedAt, err = timeField(doc.Fields, "createdAt"); err != nil {
		return Order{}, fmt.Errorf("order %s: %w", doc.ID, err)
	}
	// slot, user and userId are informational snapshots; tolerate absence
	o.Slot, _ = stringField(doc.Fields, "slot")
	o.User, _ = stringField(doc.Fields, "user")
	o.UserID, _ = stringField(doc.Fields, "userId")
	if _, ok := doc.Fields["servedAt"]; ok {
		if o.ServedAt, err = timeField(doc.Fields, "servedAt"); err != nil {
			return Order{}, fmt.Errorf("order %s: %w", doc.ID, err)
		}
	}

	if raw, ok := doc.Fields["items"].([]any); ok {
		for i, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				return Order{}, fmt.Errorf("order %s: item %d is not an object", doc.ID, i)
			}
			var line OrderLine
			if line.Name, err = stringField(m, "name"); err != nil {
				return Order{}, fmt.Errorf("order %s: item %d: %w", doc.ID, i, err)
			}
			if line.Price, err = numberField(m, "price"); err != nil {
				return Order{}, fmt.Errorf("order %s: item %d: %w", doc.ID, i, err)
			}
			qty, err := numberField(m, "quantity")
			if err != nil {
				return Order{}, fmt.Errorf("order %s: item %d: %w", doc.ID, i, err)
			}
			line.Quantity = int(qty)
			o.Items = append(o.Items, line)
		}
	}
	return o, nil
}

func (p PollItem) Document() Document {
	return Document{
		ID: p.ID,
		Fields: map[string]any{
			"name":      p.Name,
			"votes":     p.Votes,
			"createdAt": p.CreatedAt.UTC().Format(TimeFormat),
		},
	}
}

// PollItemFromDocument validates and decodes a poll snapshot document.
func PollItemFromDocument(doc Document) (PollItem, error) {
	if doc.ID == "" {
		return PollItem{}, fmt.Errorf("poll document without id")
	}
	p := PollItem{ID: doc.ID}

	var err error
	if p.Name, err = stringField(doc.Fields, "name"); err != nil {
		return PollItem{}, fmt.Errorf("poll %s: %w", doc.ID, err)
	}
	votes, err := numberField(doc.Fields, "votes")
	if err != nil {
		return PollItem{}, fmt.Errorf("poll %s: %w", doc.ID, err)
	}
	if votes < 0 {
		return PollItem{}, fmt.Errorf("poll %s: negative vote count", doc.ID)
	}
	p.Votes = int(votes)
	if p.CreatedAt, err = timeField(doc.Fields, "createdAt"); err != nil {
		return PollItem{}, fmt.Errorf("poll %s: %w", doc.ID, err)
	}
	return p, nil
}

func (s BookingSettings) Document() Document {
	return Document{
		ID:     SettingsDocID,
		Fields: map[string]any{"isBookingPaused": s.IsBookingPaused},
	}
}

// SettingsFromDocument decodes the singleton settings document.
func SettingsFromDocument(doc Document) (BookingSettings, error) {
	paused, ok := doc.Fields["isBookingPaused"].(bool)
	if !ok {
		return BookingSettings{}, fmt.Errorf("settings %s: isBookingPaused missing or not a bool", doc.ID)
	}
	return BookingSettings{IsBookingPaused: paused}, nil
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return s, nil
}

func numberField(fields map[string]any, key string) (float64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("field %q is not a number", key)
	}
}

func timeField(fields map[string]any, key string) (time.Time, error) {
	s, err := stringField(fields, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q is not an RFC3339 timestamp: %w", key, err)
	}
	return t, nil
}
