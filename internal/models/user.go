package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username       string `json:"username" gorm:"column:username;unique;not null"`
	Name           string `json:"name" gorm:"column:name;not null"`
	RegistrationID *string `json:"registrationId" gorm:"column:registration_id;unique"`
	Email          string `json:"email" gorm:"column:email;not null"`
	Password       string `json:"-" gorm:"-"` // Temporary field for password handling
	PasswordHash   string `json:"-" gorm:"column:password_hash;not null"`
	RoleID         uint   `json:"roleId" gorm:"column:role_id;not null"`
	Role           Role   `json:"role"`
	IsActive       bool   `json:"isActive" gorm:"column:is_active;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
