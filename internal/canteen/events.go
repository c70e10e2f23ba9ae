package canteen

import (
	"encoding/json"
	"time"

	"github.com/preplate/preplate/internal/models"
)

const (
	topicOrderEvents = "order_events"
	topicPollEvents  = "poll_events"

	eventOrderPlaced = "order_placed"
	eventOrderServed = "order_served"
	eventPollVoted   = "poll_voted"
)

// publishOrderEvent emits an order lifecycle event on the configured output.
// Publishing is best effort; a failed emit is logged and never surfaces to
// the caller, the store remains the source of truth.
func (s *Service) publishOrderEvent(eventType string, order models.Order) {
	payload := struct {
		EventType   string  `json:"event_type"`
		OrderID     string  `json:"order_id"`
		UserID      string  `json:"user_id"`
		Slot        string  `json:"slot"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
		ItemCount   int     `json:"item_count"`
		Timestamp   int64   `json:"timestamp"`
	}{
		EventType:   eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Slot:        order.Slot,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		Timestamp:   time.Now().Unix(),
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).Error("failed to serialize order event")
		return
	}
	if err := s.output.WriteMessage(topicOrderEvents, msg); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to publish order event")
	}
}

// publishPollEvent emits a poll vote event on the configured output.
func (s *Service) publishPollEvent(eventType, itemID string, delta int64) {
	payload := struct {
		EventType string `json:"event_type"`
		ItemID    string `json:"item_id"`
		Delta     int64  `json:"delta"`
		Timestamp int64  `json:"timestamp"`
	}{
		EventType: eventType,
		ItemID:    itemID,
		Delta:     delta,
		Timestamp: time.Now().Unix(),
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).Error("failed to serialize poll event")
		return
	}
	if err := s.output.WriteMessage(topicPollEvents, msg); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to publish poll event")
	}
}
