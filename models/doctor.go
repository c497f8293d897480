package models

import (
	"time"

	"github.com/google/uuid"
)

// Doctor represents a practitioner account that authenticates with a doctor token
type Doctor struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Specialization string    `json:"specialization,omitempty" db:"specialization"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	HospitalID     *string   `json:"hospital_id,omitempty" db:"hospital_id"` // Optional affiliation
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Doctor model
func (Doctor) TableName() string {
	return "doctors"
}

// NewDoctor creates a new Doctor instance with a generated identifier
func NewDoctor(name, email, specialization string) *Doctor {
	now := time.Now()
	return &Doctor{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          email,
		Specialization: specialization,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch bumps UpdatedAt to the current time
func (d *Doctor) Touch() {
	d.UpdatedAt = time.Now()
}
