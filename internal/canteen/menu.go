package canteen

import (
	"github.com/lucsky/cuid"

	"github.com/preplate/preplate/internal/models"
)

const defaultMenuImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?q=80&w=1000"

// Menu returns a copy of the catalogue. The menu is owned by this instance,
// never written to the shared store.
func (s *Service) Menu() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MenuItem(nil), s.menu...)
}

// Categories lists the distinct menu categories in catalogue order.
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var categories []string
	for _, item := range s.menu {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

// MenuByCategory filters the catalogue; an empty category returns everything.
func (s *Service) MenuByCategory(category string) []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if category == "" {
		return append([]models.MenuItem(nil), s.menu...)
	}
	var items []models.MenuItem
	for _, item := range s.menu {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

// AddMenuItem adds a dish to the catalogue, filling in the defaults staff
// never type in by hand.
func (s *Service) AddMenuItem(item models.MenuItem) models.MenuItem {
	if item.ID == "" {
		item.ID = cuid.New()
	}
	if item.Image == "" {
		item.Image = defaultMenuImage
	}
	if item.Rating == 0 {
		item.Rating = 5.0
	}

	s.mu.Lock()
	s.menu = append(s.menu, item)
	s.mu.Unlock()

	s.logger.Infof("menu item %q added", item.Name)
	return item
}

// DeleteMenuItem removes a dish from the catalogue. Placed orders keep their
// price snapshots either way.
func (s *Service) DeleteMenuItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menu {
		if s.menu[i].ID == id {
			s.menu = append(s.menu[:i], s.menu[i+1:]...)
			return nil
		}
	}
	return ErrMenuItemNotFound
}
