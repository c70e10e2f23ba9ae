package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDocumentRoundTrip(t *testing.T) {
	created := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	order := Order{
		ID: "ORD-abc",
		Items: []OrderLine{
			{Name: "Fish Fry", Price: 30, Quantity: 2},
		},
		TotalAmount: 60,
		Slot:        "12:00 - 12:15",
		Status:      OrderStatusPending,
		User:        "Asha",
		UserID:      "STU11111",
		CreatedAt:   created,
	}

	got, err := OrderFromDocument(order.Document())
	require.NoError(t, err)
	assert.Equal(t, order, got)
}

func TestOrderDocumentServedAt(t *testing.T) {
	order := Order{
		ID:          "ORD-abc",
		TotalAmount: 60,
		Status:      OrderStatusServed,
		CreatedAt:   time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		ServedAt:    time.Date(2026, 8, 28, 12, 10, 0, 0, time.UTC),
	}

	doc := order.Document()
	assert.Equal(t, "2026-08-28T12:10:00Z", doc.Fields["servedAt"])

	got, err := OrderFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, order.ServedAt, got.ServedAt)
}

func TestOrderFromDocumentRejectsMalformed(t *testing.T) {
	valid := func() Document {
		return Order{
			ID:          "ORD-abc",
			TotalAmount: 60,
			Status:      OrderStatusPending,
			CreatedAt:   time.Now(),
		}.Document()
	}

	doc := valid()
	doc.ID = ""
	_, err := OrderFromDocument(doc)
	assert.Error(t, err, "missing id")

	doc = valid()
	doc.Fields["status"] = "Eaten"
	_, err = OrderFromDocument(doc)
	assert.Error(t, err, "unknown status")

	doc = valid()
	delete(doc.Fields, "totalAmount")
	_, err = OrderFromDocument(doc)
	assert.Error(t, err, "missing total")

	doc = valid()
	doc.Fields["createdAt"] = "yesterday"
	_, err = OrderFromDocument(doc)
	assert.Error(t, err, "bad timestamp")

	doc = valid()
	doc.Fields["items"] = []any{"not-an-object"}
	_, err = OrderFromDocument(doc)
	assert.Error(t, err, "bad item entry")
}

func TestOrderFromDocumentToleratesMissingSnapshotsFields(t *testing.T) {
	doc := Document{
		ID: "ORD-legacy",
		Fields: map[string]any{
			"status":      OrderStatusPending,
			"totalAmount": 40,
			"createdAt":   "2026-08-28T12:00:00Z",
		},
	}

	got, err := OrderFromDocument(doc)
	require.NoError(t, err)
	assert.Empty(t, got.Slot)
	assert.Empty(t, got.UserID)
}

func TestPollItemDocumentRoundTrip(t *testing.T) {
	item := PollItem{
		ID:        "p1",
		Name:      "Paneer Tikka",
		Votes:     12,
		CreatedAt: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
	}

	got, err := PollItemFromDocument(item.Document())
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestPollItemFromDocumentRejectsNegativeVotes(t *testing.T) {
	doc := Document{
		ID: "p1",
		Fields: map[string]any{
			"name":      "Paneer Tikka",
			"votes":     -1,
			"createdAt": "2026-08-28T09:00:00Z",
		},
	}
	_, err := PollItemFromDocument(doc)
	assert.Error(t, err)
}

func TestPollItemVotesAcceptNumericWidths(t *testing.T) {
	// counts written through an atomic increment come back as int64
	doc := Document{
		ID: "p1",
		Fields: map[string]any{
			"name":      "Paneer Tikka",
			"votes":     int64(3),
			"createdAt": "2026-08-28T09:00:00Z",
		},
	}
	got, err := PollItemFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Votes)
}

func TestSettingsDocument(t *testing.T) {
	doc := BookingSettings{IsBookingPaused: true}.Document()
	assert.Equal(t, SettingsDocID, doc.ID)

	got, err := SettingsFromDocument(doc)
	require.NoError(t, err)
	assert.True(t, got.IsBookingPaused)

	_, err = SettingsFromDocument(Document{ID: SettingsDocID, Fields: map[string]any{}})
	assert.Error(t, err)
}
