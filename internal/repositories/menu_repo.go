package repositories

import (
	"canteen/internal/models"
)

// MenuRepository defines the interface for menu catalog data access.
type MenuRepository interface {
	GetAll(onlyAvailable bool) ([]models.MenuItem, error)
	GetByID(id string) (*models.MenuItem, error)
	// GetByIDs resolves a batch of item ids in one lookup. Ids that do not
	// exist are simply absent from the returned map.
	GetByIDs(ids []string) (map[string]models.MenuItem, error)
	Create(item *models.MenuItem) error
	Update(item *models.MenuItem) error
	Delete(id string) error
}
