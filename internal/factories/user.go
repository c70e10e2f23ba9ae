package factories

import (
	"fmt"

	"github.com/jaswdr/faker"

	"github.com/preplate/preplate/internal/models"
)

var fake = faker.New()

type StudentFactory struct{}

// CreateStudent generates a plausible campus identity for demo seeding.
func (sf *StudentFactory) CreateStudent() models.Identity {
	id := fmt.Sprintf("STU%d", fake.IntBetween(10000, 99999))
	return models.Identity{
		Name:      fake.Person().Name(),
		StudentID: id,
		Email:     fake.Internet().Email(),
	}
}
