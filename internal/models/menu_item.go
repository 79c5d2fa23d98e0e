package models

import "gorm.io/gorm"

// MenuItem represents a dish offered by the canteen.
type MenuItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImagePath   string  `json:"image_path,omitempty" gorm:"type:varchar(255)"`
	IsAvailable bool    `json:"is_available" gorm:"default:true"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
