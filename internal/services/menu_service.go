package services

import (
	"canteen/internal/models"
	"canteen/internal/repositories"
)

// MenuService handles business logic related to the menu catalog.
type MenuService struct {
	repo repositories.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// GetMenu retrieves menu items; onlyAvailable restricts the listing to
// items students can currently order.
func (s *MenuService) GetMenu(onlyAvailable bool) ([]models.MenuItem, error) {
	return s.repo.GetAll(onlyAvailable)
}

// GetItemByID retrieves a single menu item by its ID.
func (s *MenuService) GetItemByID(id string) (*models.MenuItem, error) {
	return s.repo.GetByID(id)
}

// CreateItem creates a new menu item.
func (s *MenuService) CreateItem(item *models.MenuItem) error {
	return s.repo.Create(item)
}

// UpdateItem updates an existing menu item. Price edits never touch the
// snapshots on already-placed orders.
func (s *MenuService) UpdateItem(item *models.MenuItem) error {
	return s.repo.Update(item)
}

// DeleteItem deletes a menu item by its ID.
func (s *MenuService) DeleteItem(id string) error {
	return s.repo.Delete(id)
}
