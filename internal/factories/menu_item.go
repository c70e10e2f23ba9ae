package factories

import (
	"math/rand"

	"github.com/lucsky/cuid"

	"github.com/preplate/preplate/internal/models"
)

type MenuItemFactory struct{}

// DefaultMenu is the canteen's standing menu, served when the catalogue has
// not been customised.
func DefaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "1", Name: "Full Chicken Biriyani", Price: 100, Category: "Main Course", Image: defaultDishImage, Rating: 4.8, IsSpecial: true},
		{ID: "2", Name: "Half Chicken Biriyani", Price: 50, Category: "Main Course", Image: defaultDishImage, Rating: 4.6},
		{ID: "3", Name: "Fish Fry", Price: 30, Category: "Non-Veg", Image: defaultDishImage, Rating: 4.5},
		{ID: "4", Name: "Veg Meals", Price: 40, Category: "Veg", Image: defaultDishImage, Rating: 4.2},
		{ID: "5", Name: "Chocolate Brownie", Price: 60, Category: "Dessert", Image: defaultDishImage, Rating: 4.9},
		{ID: "6", Name: "Fish Curry", Price: 90, Category: "Non-Veg", Image: defaultDishImage, Rating: 4.7, IsSpecial: true},
	}
}

// CreateMenuItem generates a plausible dish for seeding demo catalogues.
func (mf *MenuItemFactory) CreateMenuItem() models.MenuItem {
	category := menuCategories[rand.Intn(len(menuCategories))]
	return models.MenuItem{
		ID:        cuid.New(),
		Name:      generateRandomDish(category),
		Price:     float64(fake.IntBetween(20, 150)),
		Category:  category,
		Image:     defaultDishImage,
		Rating:    float64(fake.IntBetween(30, 50)) / 10,
		IsSpecial: fake.IntBetween(0, 9) == 0,
	}
}

const defaultDishImage = "https://placehold.co/300x200"

var menuCategories = []string{"Main Course", "Veg", "Non-Veg", "Dessert", "Snacks"}

func generateRandomDish(category string) string {
	dishes := map[string][]string{
		"Main Course": {"Chicken Biriyani", "Mutton Biriyani", "Egg Fried Rice", "Ghee Roast Dosa"},
		"Veg":         {"Veg Meals", "Paneer Butter Masala", "Veg Pulao", "Dal Tadka"},
		"Non-Veg":     {"Fish Fry", "Fish Curry", "Chicken 65", "Pepper Chicken"},
		"Dessert":     {"Chocolate Brownie", "Gulab Jamun", "Ice Cream Sundae", "Payasam"},
		"Snacks":      {"Samosa", "Veg Puff", "Masala Vada", "Bread Pakora"},
	}
	if names, ok := dishes[category]; ok {
		return names[rand.Intn(len(names))]
	}
	return "Special of the Day"
}
