package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobCategory string

const (
	CategorySoftwareEngineer   JobCategory = "Software Engineer"
	CategoryFullStackDeveloper JobCategory = "Full Stack Developer"
	CategoryFrontendDeveloper  JobCategory = "Frontend Developer"
	CategoryBackendDeveloper   JobCategory = "Backend Developer"
	CategoryDataScientist      JobCategory = "Data Scientist"
	CategoryDevOpsEngineer     JobCategory = "DevOps Engineer"
	CategoryUIUXDesigner       JobCategory = "UI/UX Designer"
	CategoryProductManager     JobCategory = "Product Manager"
	CategoryOther              JobCategory = "Other"
)

var jobCategories = map[JobCategory]struct{}{
	CategorySoftwareEngineer:   {},
	CategoryFullStackDeveloper: {},
	CategoryFrontendDeveloper:  {},
	CategoryBackendDeveloper:   {},
	CategoryDataScientist:      {},
	CategoryDevOpsEngineer:     {},
	CategoryUIUXDesigner:       {},
	CategoryProductManager:     {},
	CategoryOther:              {},
}

func (c JobCategory) Valid() bool {
	_, ok := jobCategories[c]
	return ok
}

type Job struct {
	ID          string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;type:text;not null" json:"title"`
	Description string         `gorm:"column:description;type:text;not null" json:"description"`
	Company     string         `gorm:"column:company;type:text;not null" json:"company"`
	Location    string         `gorm:"column:location;type:text;not null" json:"location"`
	Category    JobCategory    `gorm:"column:category;type:text;not null;index" json:"category"`
	Openings    int            `gorm:"column:openings;not null;check:chk_jobs_openings,openings >= 0" json:"openings"`
	Deadline    datatypes.Date `gorm:"column:deadline;not null" json:"deadline"`
	Constraints string         `gorm:"column:constraints;type:text" json:"constraints"`
	Salary      string         `gorm:"column:salary;type:text" json:"salary"`
	RecruiterID string         `gorm:"column:recruiter_id;type:uuid;not null;index" json:"recruiter_id"`

	Recruiter *User `gorm:"foreignKey:RecruiterID" json:"recruiter,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }

// JobFilter holds the optional listing filters. Empty fields match everything.
type JobFilter struct {
	Title    string
	Location string
	Category JobCategory
	Type     string // substring of constraints
}
