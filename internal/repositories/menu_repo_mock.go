package repositories

import (
	"fmt"
	"sort"
	"sync"

	"canteen/internal/models"

	"github.com/google/uuid"
)

// MockMenuRepository is an in-memory implementation of MenuRepository.
type MockMenuRepository struct {
	items map[string]models.MenuItem
	mu    sync.RWMutex
}

// NewMockMenuRepository creates a new instance of MockMenuRepository.
func NewMockMenuRepository() *MockMenuRepository {
	return &MockMenuRepository{
		items: make(map[string]models.MenuItem),
	}
}

// GetAll returns menu items ordered by name.
func (r *MockMenuRepository) GetAll(onlyAvailable bool) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		if onlyAvailable && !item.IsAvailable {
			continue
		}
		itemList = append(itemList, item)
	}
	sort.Slice(itemList, func(i, j int) bool { return itemList[i].Name < itemList[j].Name })
	return itemList, nil
}

// GetByID returns a menu item by its ID.
func (r *MockMenuRepository) GetByID(id string) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item with ID %s not found", id)
	}
	return &item, nil
}

// GetByIDs resolves a batch of ids; unknown ids are absent from the result.
func (r *MockMenuRepository) GetByIDs(ids []string) (map[string]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]models.MenuItem, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

// Create adds a new menu item.
func (r *MockMenuRepository) Create(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// Update modifies an existing menu item.
func (r *MockMenuRepository) Update(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("menu item with ID %s not found for update", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// Delete removes a menu item by its ID.
func (r *MockMenuRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]
	if !ok {
		return fmt.Errorf("menu item with ID %s not found for deletion", id)
	}
	delete(r.items, id)
	return nil
}
