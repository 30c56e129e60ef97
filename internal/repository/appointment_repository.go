// This file defines repository methods for appointments. A unique index on
// (doctor_id, appointment_time) backs the double-booking guarantee: the
// second insert for the same slot fails with a duplicate-key error which is
// surfaced as ErrSlotTaken.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/appointment-scheduler/internal/model"
)

// ErrAppointmentNotFound is returned when an appointment cannot be found.
var ErrAppointmentNotFound = errors.New("appointment not found")

// ErrSlotTaken is returned when the doctor already has an appointment at the
// requested time.
var ErrSlotTaken = errors.New("slot already taken")

// AppointmentRepo encapsulates all database queries related to appointments.
type AppointmentRepo struct {
	db *sql.DB
}

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

// Create inserts a new appointment. On success the ID, CreatedAt and
// UpdatedAt fields are populated. A duplicate (doctor, time) pair returns
// ErrSlotTaken.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	const qInsert = "INSERT INTO appointments (doctor_id, patient_id, appointment_time, created_by) VALUES (?,?,?,?)"
	res, err := r.db.ExecContext(ctx, qInsert, a.DoctorID, a.PatientID, a.AppointmentTime, a.CreatedBy)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	const qSelect = "SELECT created_at, updated_at FROM appointments WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an appointment by its ID. It returns ErrAppointmentNotFound
// if no row is found.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (*model.Appointment, error) {
	const q = "SELECT id, doctor_id, patient_id, appointment_time, created_by, created_at, updated_at FROM appointments WHERE id = ?"
	var (
		a         model.Appointment
		patientID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.DoctorID, &patientID, &a.AppointmentTime, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if patientID.Valid {
		v := uint64(patientID.Int64)
		a.PatientID = &v
	}
	return &a, nil
}

// ListByDoctor returns a doctor's appointments in chronological order.
func (r *AppointmentRepo) ListByDoctor(ctx context.Context, doctorID uint64) ([]model.Appointment, error) {
	const q = "SELECT id, doctor_id, patient_id, appointment_time, created_by, created_at, updated_at FROM appointments WHERE doctor_id = ? ORDER BY appointment_time"
	rows, err := r.db.QueryContext(ctx, q, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Appointment, 0)
	for rows.Next() {
		var (
			a         model.Appointment
			patientID sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.DoctorID, &patientID, &a.AppointmentTime, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if patientID.Valid {
			v := uint64(patientID.Int64)
			a.PatientID = &v
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Delete removes an appointment. It returns ErrAppointmentNotFound when no
// row was deleted.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
