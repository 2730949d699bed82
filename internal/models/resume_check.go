package models

import "time"

// ResumeCheck is a standalone resume scoring result, stored in Mongo.
type ResumeCheck struct {
	ID              string    `bson:"_id" json:"id"` // uuid
	UserID          string    `bson:"user_id" json:"user_id"`
	Resume          string    `bson:"resume" json:"resume"`
	ATSScore        int       `bson:"ats_score" json:"ats_score"`
	StrongKeywords  []string  `bson:"strong_keywords" json:"strong_keywords"`
	MissingKeywords []string  `bson:"missing_keywords" json:"missing_keywords"`
	Suggestions     []string  `bson:"suggestions" json:"suggestions"`
	CheckedAt       time.Time `bson:"checked_at" json:"checked_at"`

	// UTC day (YYYY-MM-DD); unique together with user_id.
	CheckDay string `bson:"check_day" json:"-"`
}
