package models

import (
	"gorm.io/gorm"
)

// Report is a club's post-event writeup for a proposal.
type Report struct {
	gorm.Model
	ClubID           uint               `json:"clubId" gorm:"column:club_id;not null"`
	Club             Club               `json:"club"`
	ProposalID       uint               `json:"proposalId" gorm:"column:proposal_id;not null"`
	Proposal         Proposal           `json:"proposal"`
	Title            string             `json:"title" gorm:"column:title;not null"`
	ParticipantCount int                `json:"participantCount" gorm:"column:participant_count"`
	Content          string             `json:"content" gorm:"column:content"`
	Outcomes         string             `json:"outcomes" gorm:"column:outcomes"`
	SubmittedByID    uint               `json:"submittedById" gorm:"column:submitted_by_id;not null"`
	Attachments      []ReportAttachment `json:"attachments" gorm:"foreignKey:ReportID"`
}

func (Report) TableName() string {
	return "reports"
}

type ReportAttachment struct {
	gorm.Model
	ReportID uint   `json:"reportId" gorm:"column:report_id;not null"`
	FileURL  string `json:"fileUrl" gorm:"column:file_url;not null"`
}

func (ReportAttachment) TableName() string {
	return "report_attachments"
}
