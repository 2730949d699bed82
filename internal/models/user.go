package models

import "time"

type UserRole string

const (
	RoleRecruiter UserRole = "recruiter"
	RoleApplicant UserRole = "applicant"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleRecruiter, RoleApplicant, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;type:text;not null" json:"name"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex:uniq_users_email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role         UserRole  `gorm:"column:role;type:text;not null;index" json:"role"`
	Phone        string    `gorm:"column:phone;type:text" json:"phone,omitempty"`
	IsBlocked    bool      `gorm:"column:is_blocked;not null;default:false" json:"is_blocked"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Principal is the authenticated caller handed to every service operation.
type Principal struct {
	UserID string
	Role   UserRole
}

func (p Principal) Is(role UserRole) bool { return p.UserID != "" && p.Role == role }
