package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent    Role = "student"
	RoleProcessing Role = "processing"
	RoleAdmin      Role = "admin"
)

// ParseRole maps a raw string onto a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleProcessing:
		return RoleProcessing, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Account models any authenticated party: students, processing team members,
// and admins share one collection. Role is immutable after creation.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Profile      Profile   `json:"profile"`
	// ManagedRegions is meaningful only for processing accounts.
	ManagedRegions []string `json:"managed_regions,omitempty"`
	// CreatedBy records which admin provisioned this account, for lineage
	// only — it confers no ownership.
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the student-facing profile fields.
type Profile struct {
	Address          string `json:"address,omitempty"`
	DateOfBirth      string `json:"dob,omitempty"`
	Bio              string `json:"bio,omitempty"`
	PreferredCountry string `json:"preferred_country,omitempty"`
	EducationLevel   string `json:"education_level,omitempty"`
	FundingSource    string `json:"funding_source,omitempty"`
	Budget           string `json:"budget,omitempty"`
}

// NormalizeEmail lowercases and trims an email so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Education is a single education-history entry for a student.
type Education struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	Degree        string    `json:"degree"`
	Institution   string    `json:"institution"`
	YearCompleted string    `json:"year_completed"`
	GPA           string    `json:"gpa,omitempty"`
	Country       string    `json:"country,omitempty"`
	Major         string    `json:"major,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
