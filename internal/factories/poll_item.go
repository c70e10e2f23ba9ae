package factories

import (
	"time"

	"github.com/preplate/preplate/internal/models"
)

type PollItemFactory struct{}

// CreatePollItem generates a dish suggestion with a small starting tally.
func (pf *PollItemFactory) CreatePollItem() models.PollItem {
	dish := generateRandomDish(menuCategories[fake.IntBetween(0, len(menuCategories)-1)])
	return models.PollItem{
		Name:      dish,
		Votes:     fake.IntBetween(0, 25),
		CreatedAt: time.Now(),
	}
}
