package models

import (
	"gorm.io/gorm"
)

type Club struct {
	gorm.Model
	Name        string `json:"name" gorm:"column:name;not null"`
	Description string `json:"description" gorm:"column:description"`
	ImageURL    string `json:"imageUrl" gorm:"column:image_url"`
}

func (Club) TableName() string {
	return "clubs"
}

// ClubMember stores the club/user relationship. The pair is unique.
type ClubMember struct {
	gorm.Model
	ClubID uint `json:"clubId" gorm:"column:club_id;not null;uniqueIndex:idx_club_member"`
	Club   Club `json:"club"`
	UserID uint `json:"userId" gorm:"column:user_id;not null;uniqueIndex:idx_club_member"`
	User   User `json:"user"`
}

func (ClubMember) TableName() string {
	return "club_members"
}
