package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/model"
	"github.com/iliyamo/appointment-scheduler/internal/queue"
	"github.com/iliyamo/appointment-scheduler/internal/repository"
	queue_publisher "github.com/iliyamo/appointment-scheduler/internal/service"
)

// AppointmentHandler serves the booking endpoints. All of them require an
// authenticated user; double booking is enforced by the database's unique
// (doctor, time) index and surfaced as a 409.
type AppointmentHandler struct {
	Appointments *repository.AppointmentRepo
	People       *repository.PersonRepo
	Hospitals    *repository.HospitalRepo
	Users        *repository.UserRepo
}

func NewAppointmentHandler(a *repository.AppointmentRepo, p *repository.PersonRepo, h *repository.HospitalRepo, u *repository.UserRepo) *AppointmentHandler {
	return &AppointmentHandler{Appointments: a, People: p, Hospitals: h, Users: u}
}

type createAppointmentReq struct {
	DoctorID        uint64  `json:"doctor_id"`
	PatientID       *uint64 `json:"patient_id"`
	AppointmentTime string  `json:"appointment_time"` // RFC 3339
}

type appointmentResp struct {
	ID              uint64    `json:"id"`
	DoctorID        uint64    `json:"doctor_id"`
	PatientID       *uint64   `json:"patient_id,omitempty"`
	AppointmentTime time.Time `json:"appointment_time"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func toAppointmentResp(a model.Appointment) appointmentResp {
	return appointmentResp{
		ID:              a.ID,
		DoctorID:        a.DoctorID,
		PatientID:       a.PatientID,
		AppointmentTime: a.AppointmentTime,
		CreatedBy:       a.CreatedBy,
		CreatedAt:       a.CreatedAt,
	}
}

// Create handles POST /api/appointments.
func (h *AppointmentHandler) Create(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createAppointmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	when, err := time.Parse(time.RFC3339, req.AppointmentTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "appointment_time must be RFC 3339"})
	}
	when = when.UTC()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doctor, err := h.People.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if doctor.Role != model.RoleDoctor {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "doctor_id does not reference a doctor"})
	}

	var patient *model.Person
	if req.PatientID != nil {
		patient, err = h.People.GetByID(ctx, *req.PatientID)
		if err != nil {
			if errors.Is(err, repository.ErrPersonNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if patient.Role != model.RolePatient {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient_id does not reference a patient"})
		}
	}

	a := &model.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		AppointmentTime: when,
		CreatedBy:       uid,
	}
	if err := h.Appointments.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "doctor already booked at that time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create appointment"})
	}

	h.publishBooked(a, doctor, patient)
	return c.JSON(http.StatusCreated, toAppointmentResp(*a))
}

// ListByDoctor handles GET /api/doctors/:id/appointments.
func (h *AppointmentHandler) ListByDoctor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Appointments.ListByDoctor(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]appointmentResp, 0, len(items))
	for _, it := range items {
		out = append(out, toAppointmentResp(it))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Cancel handles DELETE /api/appointments/:id. Only the user who booked the
// appointment or a superuser may cancel it.
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if a.CreatedBy != uid {
		u, err := h.Users.FindByID(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if u == nil || !u.IsSuperuser {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	if err := h.Appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// publishBooked emits the appointment.booked event. Publishing is best
// effort: the booking is already committed, so a broker outage must not fail
// the request.
func (h *AppointmentHandler) publishBooked(a *model.Appointment, doctor, patient *model.Person) {
	ev := queue.AppointmentBookedEvent{
		AppointmentID:   a.ID,
		DoctorID:        a.DoctorID,
		DoctorName:      doctor.Name,
		PatientID:       a.PatientID,
		AppointmentTime: a.AppointmentTime.Format(time.RFC3339),
		BookedBy:        a.CreatedBy,
		BookedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if patient != nil {
		ev.PatientName = patient.Name
	}
	if doctor.HospitalID != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if hosp, err := h.Hospitals.GetByID(ctx, *doctor.HospitalID); err == nil {
			ev.HospitalID = hosp.ID
			ev.HospitalName = hosp.Name
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAppointmentBooked(ctx, ev)
	}()
}
