package canteen

import (
	"math"

	"github.com/preplate/preplate/internal/models"
)

// ComputeAnalytics derives the live metrics from an order projection. It is
// a pure function of its inputs and runs on every projection change; an O(n)
// scan is fine at canteen scale.
//
// Crowd levels use strict greater-than: a pending count sitting exactly on a
// threshold stays in the lower tier. Revenue counts every order regardless
// of status, served included.
func ComputeAnalytics(orders []models.Order, cfg *models.Config) models.Analytics {
	pending := 0
	revenue := 0.0
	for _, o := range orders {
		if o.Pending() {
			pending++
		}
		revenue += o.TotalAmount
	}

	rate := cfg.ServingRatePerMinute
	if rate <= 0 {
		rate = 3
	}
	wait := int(math.Ceil(float64(pending) / float64(rate)))

	level := models.CrowdLevelLow
	switch {
	case pending > cfg.CrowdHighThreshold:
		level = models.CrowdLevelHigh
	case pending > cfg.CrowdMediumThreshold:
		level = models.CrowdLevelMedium
	}

	return models.Analytics{
		PendingOrders:        pending,
		EstimatedWaitMinutes: wait,
		CrowdLevel:           level,
		TotalRevenue:         revenue,
		TotalOrders:          len(orders),
	}
}
