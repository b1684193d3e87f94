package models

import (
	"gorm.io/gorm"
)

type Role struct {
	gorm.Model
	Name        string       `json:"name" gorm:"column:name;unique;not null"`
	Description string       `json:"description" gorm:"column:description"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions"`
}

func (Role) TableName() string {
	return "roles"
}
