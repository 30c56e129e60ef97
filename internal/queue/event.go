// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// AppointmentBookedEvent is published when an appointment is successfully
// booked. It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type AppointmentBookedEvent struct {
	AppointmentID   uint64  `json:"appointment_id"`
	DoctorID        uint64  `json:"doctor_id"`
	DoctorName      string  `json:"doctor_name"`
	PatientID       *uint64 `json:"patient_id,omitempty"`
	PatientName     string  `json:"patient_name,omitempty"`
	HospitalID      uint64  `json:"hospital_id"`
	HospitalName    string  `json:"hospital_name"`
	AppointmentTime string  `json:"appointment_time"`
	BookedBy        string  `json:"booked_by"`
	BookedAt        string  `json:"booked_at"`
}
