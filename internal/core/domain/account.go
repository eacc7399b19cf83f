package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the kind of account being created or signed into.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// DefaultRole is preselected on every new form.
const DefaultRole = RoleStudent

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ParseRole converts s to a Role, returning ErrInvalidRole for anything else.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Departments is the closed list offered by the sign-up form.
var Departments = []string{
	"Computer Science",
	"Information Technology",
	"Software Engineering",
	"Data Science",
	"Cybersecurity",
	"Business Administration",
	"Engineering",
	"Mathematics",
	"Other",
}

// IsDepartment reports whether name is an entry of Departments.
func IsDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// CreatedAtLayout renders timestamps the way browsers do (millisecond ISO-8601, UTC).
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// AccountRecord is the user profile handed off after a successful submission.
// It is never mutated once built.
type AccountRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	StudentID  string    `json:"studentId"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
}

type accountRecordJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	StudentID  string `json:"studentId"`
	Department string `json:"department"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// MarshalJSON writes createdAt with CreatedAtLayout and omits it when unset.
func (a AccountRecord) MarshalJSON() ([]byte, error) {
	var createdAt string
	if !a.CreatedAt.IsZero() {
		createdAt = a.CreatedAt.UTC().Format(CreatedAtLayout)
	}
	return json.Marshal(accountRecordJSON{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       a.Role,
		StudentID:  a.StudentID,
		Department: a.Department,
		CreatedAt:  createdAt,
	})
}

// UnmarshalJSON accepts any RFC 3339 createdAt.
func (a *AccountRecord) UnmarshalJSON(data []byte) error {
	var raw accountRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var createdAt time.Time
	if raw.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
		if err != nil {
			return fmt.Errorf("account record: createdAt: %w", err)
		}
		createdAt = ts.UTC()
	}
	*a = AccountRecord{
		ID:         raw.ID,
		Name:       raw.Name,
		Email:      raw.Email,
		Role:       raw.Role,
		StudentID:  raw.StudentID,
		Department: raw.Department,
		CreatedAt:  createdAt,
	}
	return nil
}

// NewAccountRecord builds a record from the form values. The timestamp is
// normalised to UTC with millisecond precision so it survives a JSON round trip.
func NewAccountRecord(id string, fields FieldSet, now time.Time) AccountRecord {
	return AccountRecord{
		ID:         id,
		Name:       fields.Name,
		Email:      fields.Email,
		Role:       fields.Role,
		StudentID:  fields.StudentID,
		Department: fields.Department,
		CreatedAt:  now.UTC().Truncate(time.Millisecond),
	}
}
