package models

import (
	"time"

	"github.com/lib/pq"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusSelected ApplicationStatus = "selected"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Terminal() bool {
	return s == StatusSelected || s == StatusRejected
}

type Application struct {
	ID              string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID           string            `gorm:"column:job_id;type:uuid;not null;uniqueIndex:uniq_applications_job_applicant,priority:1" json:"job_id"`
	ApplicantID     string            `gorm:"column:applicant_id;type:uuid;not null;uniqueIndex:uniq_applications_job_applicant,priority:2;index" json:"applicant_id"`
	Resume          *string           `gorm:"column:resume;type:text" json:"resume"`
	ATSScore        int               `gorm:"column:ats_score;not null;default:0" json:"ats_score"`
	StrongKeywords  pq.StringArray    `gorm:"column:strong_keywords;type:text[]" json:"strong_keywords"`
	MissingKeywords pq.StringArray    `gorm:"column:missing_keywords;type:text[]" json:"missing_keywords"`
	Status          ApplicationStatus `gorm:"column:status;type:text;not null;default:pending;index" json:"status"`
	RejectionReason string            `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	AppliedAt       time.Time         `gorm:"column:applied_at;type:timestamptz;not null" json:"applied_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

func (Application) TableName() string { return "applications" }
