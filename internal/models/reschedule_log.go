package models

import (
	"gorm.io/gorm"
)

// RescheduleLog keeps the previous coordinates of a slot that was moved.
type RescheduleLog struct {
	gorm.Model
	SlotID            uint   `json:"slotId" gorm:"column:slot_id;not null"`
	PreviousVenueID   uint   `json:"previousVenueId" gorm:"column:previous_venue_id"`
	NewVenueID        uint   `json:"newVenueId" gorm:"column:new_venue_id"`
	PreviousDate      string `json:"previousDate" gorm:"column:previous_date"`
	NewDate           string `json:"newDate" gorm:"column:new_date"`
	PreviousStartTime string `json:"previousStartTime" gorm:"column:previous_start_time"`
	NewStartTime      string `json:"newStartTime" gorm:"column:new_start_time"`
	PreviousEndTime   string `json:"previousEndTime" gorm:"column:previous_end_time"`
	NewEndTime        string `json:"newEndTime" gorm:"column:new_end_time"`
	Reason            string `json:"reason" gorm:"column:reason;not null"`
	RescheduledByID   uint   `json:"rescheduledById" gorm:"column:rescheduled_by_id"`
}

func (RescheduleLog) TableName() string {
	return "reschedule_logs"
}
