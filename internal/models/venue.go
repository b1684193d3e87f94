package models

import (
	"gorm.io/gorm"
)

type Venue struct {
	gorm.Model
	Name        string  `json:"name" gorm:"column:name;not null"`
	Address     string  `json:"address" gorm:"column:address;not null"`
	Description string  `json:"description" gorm:"column:description"`
	Latitude    float64 `json:"latitude" gorm:"column:latitude"`
	Longitude   float64 `json:"longitude" gorm:"column:longitude"`
	ImageURL    string  `json:"imageUrl" gorm:"column:image_url"`
}

func (Venue) TableName() string {
	return "venues"
}
