package canteen

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preplate/preplate/internal/events"
	"github.com/preplate/preplate/internal/ledger"
	"github.com/preplate/preplate/internal/models"
	"github.com/preplate/preplate/internal/store"
)

func newTestService(t *testing.T, cfg *models.Config, st store.Store) *Service {
	t.Helper()
	led, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })

	return NewService(cfg, st, led, &events.NopOutput{})
}

func testCart() []models.OrderLine {
	return []models.OrderLine{
		{Name: "Full Chicken Biriyani", Price: 100, Quantity: 1},
		{Name: "Fish Fry", Price: 30, Quantity: 1},
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	order, err := svc.PlaceOrder(testCart(), "slot_1", models.Identity{Name: "Asha", StudentID: "STU12345"})
	require.NoError(t, err)

	assert.Equal(t, 130.0, order.TotalAmount)
	assert.Equal(t, "12:00 - 12:15", order.Slot)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "STU12345", order.UserID)

	// visible immediately, before any durable write settles
	orders := svc.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	got := svc.Analytics()
	assert.Equal(t, 1, got.PendingOrders)
	assert.Equal(t, 130.0, got.TotalRevenue)
}

func TestPlaceOrderAdmissionChecks(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())
	identity := models.Identity{Name: "Asha", StudentID: "STU12345"}

	_, err := svc.PlaceOrder(nil, "slot_1", identity)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.PlaceOrder(testCart(), "  ", identity)
	assert.ErrorIs(t, err, ErrNoSlotSelected)

	_, err = svc.PlaceOrder(testCart(), "slot_99", identity)
	assert.ErrorIs(t, err, ErrNoSlotSelected)
}

func TestPlaceOrderWhilePaused(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	svc.ToggleBooking(context.Background(), true)
	_, err := svc.PlaceOrder(testCart(), "slot_1", models.Identity{Name: "Asha"})
	assert.ErrorIs(t, err, ErrBookingPaused)

	svc.ToggleBooking(context.Background(), false)
	_, err = svc.PlaceOrder(testCart(), "slot_1", models.Identity{Name: "Asha"})
	assert.NoError(t, err)
}

func TestSlotCapacityCountsLiveOrders(t *testing.T) {
	cfg := testConfig()
	cfg.TimeSlots = []models.TimeSlot{
		{ID: "tiny", Time: "12:00 - 12:15", Capacity: 2, Booked: 1},
	}
	svc := newTestService(t, cfg, store.NewMemoryStore())
	identity := models.Identity{Name: "Asha", StudentID: "STU12345"}

	_, err := svc.PlaceOrder(testCart(), "tiny", identity)
	require.NoError(t, err)

	// baseline 1 + 1 live pending order fills capacity 2
	_, err = svc.PlaceOrder(testCart(), "tiny", identity)
	assert.ErrorIs(t, err, ErrSlotFull)

	slots := svc.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, 2, slots[0].Booked)
}

func TestServedSlotReopensCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.TimeSlots = []models.TimeSlot{
		{ID: "tiny", Time: "12:00 - 12:15", Capacity: 2, Booked: 1},
	}
	svc := newTestService(t, cfg, store.NewMemoryStore())

	order, err := svc.PlaceOrder(testCart(), "tiny", models.Identity{Name: "Asha"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkServed(order.ID))

	_, err = svc.PlaceOrder(testCart(), "tiny", models.Identity{Name: "Ravi"})
	assert.NoError(t, err)
}

func TestMarkServed(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	order, err := svc.PlaceOrder(testCart(), "slot_1", models.Identity{Name: "Asha"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkServed(order.ID))
	served, ok := svc.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusServed, served.Status)
	assert.False(t, served.ServedAt.IsZero())

	// serving again is a no-op, not an error
	assert.NoError(t, svc.MarkServed(order.ID))

	assert.ErrorIs(t, svc.MarkServed("ORD-missing"), ErrOrderNotFound)
}

func TestServedSurvivesStaleSnapshot(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	order, err := svc.PlaceOrder(testCart(), "slot_1", models.Identity{Name: "Asha"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkServed(order.ID))

	// a stale emission still carrying the order as Pending must not undo
	// the local transition
	stale := order
	stale.Status = models.OrderStatusPending
	stale.ServedAt = time.Time{}
	svc.applyOrdersSnapshot(store.Snapshot{
		Collection: models.CollectionOrders,
		Docs:       []models.Document{stale.Document()},
	})

	got, ok := svc.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusServed, got.Status)
}

func TestOptimisticOrderSurvivesEmptySnapshot(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	order, err := svc.PlaceOrder(testCart(), "slot_1", models.Identity{Name: "Asha"})
	require.NoError(t, err)

	// the store has not confirmed the creation yet
	svc.applyOrdersSnapshot(store.Snapshot{Collection: models.CollectionOrders})

	_, ok := svc.Order(order.ID)
	assert.True(t, ok, "optimistic order dropped by an empty snapshot")
}

func TestMyOrders(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())
	asha := models.Identity{Name: "Asha", StudentID: "STU11111"}
	ravi := models.Identity{Name: "Ravi", StudentID: "STU22222"}

	mine, err := svc.PlaceOrder(testCart(), "slot_1", asha)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(testCart(), "slot_2", ravi)
	require.NoError(t, err)

	got := svc.MyOrders(asha)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestMyOrdersLegacyNameFallback(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	legacy := models.Order{
		ID:          "ORD-legacy",
		Status:      models.OrderStatusPending,
		TotalAmount: 40,
		User:        "Asha",
		CreatedAt:   time.Now(),
	}
	svc.applyOrdersSnapshot(store.Snapshot{
		Collection: models.CollectionOrders,
		Docs:       []models.Document{legacy.Document()},
	})

	got := svc.MyOrders(models.Identity{Name: "Asha", StudentID: "STU11111"})
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-legacy", got[0].ID)
}

func TestSettingsSnapshotAbsentKeepsLocal(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	svc.ToggleBooking(context.Background(), true)
	svc.applySettingsSnapshot(store.Snapshot{Collection: models.CollectionSettings})

	assert.True(t, svc.BookingPaused())
}

func TestProfileRoundTrip(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	_, ok := svc.Profile()
	assert.False(t, ok)

	identity := models.Identity{Name: "Asha", StudentID: "STU11111", Email: "asha@campus.edu"}
	require.NoError(t, svc.SaveProfile(identity))

	got, ok := svc.Profile()
	require.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestMenuOperations(t *testing.T) {
	svc := newTestService(t, testConfig(), store.NewMemoryStore())

	require.Len(t, svc.Menu(), 6)
	assert.Contains(t, svc.Categories(), "Dessert")

	added := svc.AddMenuItem(models.MenuItem{Name: "Lemon Rice", Price: 35, Category: "Veg"})
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, 5.0, added.Rating)

	veg := svc.MenuByCategory("Veg")
	require.Len(t, veg, 2)

	require.NoError(t, svc.DeleteMenuItem(added.ID))
	assert.ErrorIs(t, svc.DeleteMenuItem(added.ID), ErrMenuItemNotFound)
}
