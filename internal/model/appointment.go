package model

import "time"

// Appointment is a booking between a patient and a doctor at a specific time.
// A unique index on (doctor_id, appointment_time) in the database prevents
// double booking a doctor's slot.
//
// Fields:
//  ID              – primary key identifier.
//  DoctorID        – the doctor (people.id with role DOCTOR).
//  PatientID       – the patient (people.id with role PATIENT); nil while a
//                    slot is blocked without a patient assigned.
//  AppointmentTime – UTC start time of the appointment.
//  CreatedBy       – users.id of the account that booked the slot.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type Appointment struct {
	ID              uint64    // appointments.id
	DoctorID        uint64    // appointments.doctor_id
	PatientID       *uint64   // appointments.patient_id (nullable)
	AppointmentTime time.Time // appointments.appointment_time
	CreatedBy       string    // appointments.created_by (users.id)
	CreatedAt       time.Time // appointments.created_at
	UpdatedAt       time.Time // appointments.updated_at
}
