package models

const (
	OrderStatusPending = "Pending"
	OrderStatusServed  = "Served"

	CrowdLevelLow    = "Low"
	CrowdLevelMedium = "Medium"
	CrowdLevelHigh   = "High"

	CollectionOrders   = "orders"
	CollectionPolls    = "polls"
	CollectionSettings = "settings"

	// SettingsDocID is the fixed key of the singleton settings document.
	SettingsDocID = "config"

	// OrderIDPrefix marks ids assigned at checkout time.
	OrderIDPrefix = "ORD-"
)
