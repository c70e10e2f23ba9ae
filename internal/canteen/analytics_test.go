package canteen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/preplate/preplate/internal/models"
)

func testConfig() *models.Config {
	return &models.Config{
		CanteenName:          "Test Canteen",
		ServingRatePerMinute: 3,
		CrowdMediumThreshold: 10,
		CrowdHighThreshold:   30,
		TimeSlots:            models.DefaultTimeSlots(),
		WriteRetryAttempts:   1,
		WriteRetryBackoff:    0,
		ReconcileInterval:    time.Minute,
		ReconcileGrace:       time.Minute,
	}
}

func pendingOrders(n int) []models.Order {
	orders := make([]models.Order, n)
	for i := range orders {
		orders[i] = models.Order{ID: "o", Status: models.OrderStatusPending}
	}
	return orders
}

func TestCrowdLevelBoundaries(t *testing.T) {
	cfg := testConfig()
	cases := []struct {
		pending int
		level   string
	}{
		{0, models.CrowdLevelLow},
		{10, models.CrowdLevelLow},
		{11, models.CrowdLevelMedium},
		{30, models.CrowdLevelMedium},
		{31, models.CrowdLevelHigh},
	}

	for _, c := range cases {
		got := ComputeAnalytics(pendingOrders(c.pending), cfg)
		assert.Equal(t, c.level, got.CrowdLevel, "pending=%d", c.pending)
	}
}

func TestEstimatedWaitRoundsUp(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, 0, ComputeAnalytics(nil, cfg).EstimatedWaitMinutes)
	assert.Equal(t, 1, ComputeAnalytics(pendingOrders(1), cfg).EstimatedWaitMinutes)
	assert.Equal(t, 1, ComputeAnalytics(pendingOrders(3), cfg).EstimatedWaitMinutes)
	assert.Equal(t, 3, ComputeAnalytics(pendingOrders(7), cfg).EstimatedWaitMinutes)
}

func TestRevenueCountsServedOrders(t *testing.T) {
	cfg := testConfig()
	orders := []models.Order{
		{ID: "a", Status: models.OrderStatusPending, TotalAmount: 100},
		{ID: "b", Status: models.OrderStatusServed, TotalAmount: 50},
		{ID: "c", Status: models.OrderStatusPending, TotalAmount: 0},
	}

	got := ComputeAnalytics(orders, cfg)
	assert.Equal(t, 150.0, got.TotalRevenue)
	assert.Equal(t, 2, got.PendingOrders)
	assert.Equal(t, 3, got.TotalOrders)
}

func TestServingRateFallback(t *testing.T) {
	cfg := testConfig()
	cfg.ServingRatePerMinute = 0

	got := ComputeAnalytics(pendingOrders(6), cfg)
	assert.Equal(t, 2, got.EstimatedWaitMinutes)
}
