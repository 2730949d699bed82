package models

import "time"

type EventType string

const (
	EventApplicationCreated  EventType = "application.created"
	EventApplicationSelected EventType = "application.selected"
	EventApplicationRejected EventType = "application.rejected"
)

// ApplicationEvent is one entry of an application's audit trail.
type ApplicationEvent struct {
	ID            string            `bson:"_id" json:"id"` // uuid, set by the publisher
	Type          EventType         `bson:"type" json:"type"`
	ApplicationID string            `bson:"application_id" json:"application_id"`
	JobID         string            `bson:"job_id" json:"job_id"`
	JobTitle      string            `bson:"job_title,omitempty" json:"job_title,omitempty"`
	ApplicantID   string            `bson:"applicant_id" json:"applicant_id"`
	RecruiterID   string            `bson:"recruiter_id" json:"recruiter_id"`
	Status        ApplicationStatus `bson:"status" json:"status"`
	Reason        string            `bson:"reason,omitempty" json:"reason,omitempty"`
	ATSScore      int               `bson:"ats_score" json:"ats_score"`
	OccurredAt    time.Time         `bson:"occurred_at" json:"occurred_at"`
}
