package factories

import (
	"time"

	"github.com/lucsky/cuid"

	"github.com/preplate/preplate/internal/models"
)

type OrderFactory struct{}

// CreateOrder generates a plausible placed order against the given menu and
// slot table. Roughly a third of the generated orders are already served.
func (of *OrderFactory) CreateOrder(menu []models.MenuItem, slots []models.TimeSlot) models.Order {
	student := (&StudentFactory{}).CreateStudent()

	lineCount := fake.IntBetween(1, 3)
	lines := make([]models.OrderLine, 0, lineCount)
	for i := 0; i < lineCount; i++ {
		dish := menu[fake.IntBetween(0, len(menu)-1)]
		lines = append(lines, models.OrderLine{
			Name:     dish.Name,
			Price:    dish.Price,
			Quantity: fake.IntBetween(1, 2),
		})
	}

	order := models.Order{
		ID:          models.OrderIDPrefix + cuid.New(),
		Items:       lines,
		TotalAmount: models.CartTotal(lines),
		Slot:        slots[fake.IntBetween(0, len(slots)-1)].Time,
		Status:      models.OrderStatusPending,
		User:        student.Name,
		UserID:      student.StudentID,
		CreatedAt:   time.Now().Add(-time.Duration(fake.IntBetween(0, 45)) * time.Minute),
	}
	if fake.IntBetween(0, 2) == 0 {
		order.Status = models.OrderStatusServed
		order.ServedAt = order.CreatedAt.Add(time.Duration(fake.IntBetween(5, 20)) * time.Minute)
	}
	return order
}
