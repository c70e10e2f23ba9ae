package models

// MenuItem is owned client-side: the catalogue lives in the service instance
// and is never written to the shared store.
type MenuItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Image     string  `json:"image"`
	Rating    float64 `json:"rating"`
	IsSpecial bool    `json:"isSpecial"`
}
