package model

import "time"

// Role classifies a person record. A single `people` table with a role tag
// replaces the separate doctors/staff/patients tables of earlier schema
// drafts; role-specific columns (hospital, specialty) are nullable and only
// populated where they apply.
type Role string

const (
	RoleDoctor  Role = "DOCTOR"
	RoleStaff   Role = "STAFF"
	RolePatient Role = "PATIENT"
)

// Person represents a row in the `people` table: anyone the scheduler knows
// about, whether employed by a hospital (doctors, staff) or a patient.
//
// Fields:
//  ID         – primary key identifier.
//  Role       – DOCTOR, STAFF or PATIENT.
//  Name       – full name.
//  Phone      – optional contact phone.
//  Email      – optional contact email (distinct from the login email on users).
//  HospitalID – employing hospital; nil for patients.
//  Specialty  – medical specialty; only set for doctors.
//  CreatedAt  – timestamp of creation.
type Person struct {
	ID         uint64    // people.id
	Role       Role      // people.role
	Name       string    // people.name
	Phone      *string   // people.phone (nullable)
	Email      *string   // people.email (nullable)
	HospitalID *uint64   // people.hospital_id (nullable, doctors/staff only)
	Specialty  *string   // people.specialty (nullable, doctors only)
	CreatedAt  time.Time // people.created_at
}
