package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/model"
	"github.com/iliyamo/appointment-scheduler/internal/repository"
)

// PersonHandler serves doctor and patient listings. Doctor listings are
// public browse data; the patient listing is restricted to superusers by
// middleware.
type PersonHandler struct {
	People *repository.PersonRepo
}

func NewPersonHandler(p *repository.PersonRepo) *PersonHandler {
	return &PersonHandler{People: p}
}

type personResp struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	HospitalID *uint64 `json:"hospital_id,omitempty"`
	Specialty  *string `json:"specialty,omitempty"`
}

func toPersonResps(people []model.Person) []personResp {
	out := make([]personResp, 0, len(people))
	for _, p := range people {
		out = append(out, personResp{
			ID:         p.ID,
			Name:       p.Name,
			Phone:      p.Phone,
			Email:      p.Email,
			HospitalID: p.HospitalID,
			Specialty:  p.Specialty,
		})
	}
	return out
}

// ListDoctors handles GET /api/doctors with an optional ?hospital_id filter.
func (h *PersonHandler) ListDoctors(c echo.Context) error {
	var hospitalID *uint64
	if raw := c.QueryParam("hospital_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hospital_id"})
		}
		hospitalID = &id
	}
	doctors, err := h.People.ListByRole(c.Request().Context(), model.RoleDoctor, hospitalID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toPersonResps(doctors)})
}

// ListPatients handles GET /api/patients (superuser only).
func (h *PersonHandler) ListPatients(c echo.Context) error {
	patients, err := h.People.ListByRole(c.Request().Context(), model.RolePatient, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toPersonResps(patients)})
}
