package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/model"
	"github.com/iliyamo/appointment-scheduler/internal/repository"
)

// HospitalHandler serves the public hospital browse endpoints. These routes
// are read-only and sit behind the Redis response cache.
type HospitalHandler struct {
	Hospitals *repository.HospitalRepo
	People    *repository.PersonRepo
}

func NewHospitalHandler(h *repository.HospitalRepo, p *repository.PersonRepo) *HospitalHandler {
	return &HospitalHandler{Hospitals: h, People: p}
}

type hospitalResp struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Timezone  string `json:"timezone"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func toHospitalResp(h model.Hospital) hospitalResp {
	return hospitalResp{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		Timezone:  h.Timezone,
		OpenTime:  h.OpenTime,
		CloseTime: h.CloseTime,
	}
}

// List handles GET /api/hospitals.
func (h *HospitalHandler) List(c echo.Context) error {
	items, err := h.Hospitals.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]hospitalResp, 0, len(items))
	for _, it := range items {
		out = append(out, toHospitalResp(it))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /api/hospitals/:id.
func (h *HospitalHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hosp, err := h.Hospitals.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hospital not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toHospitalResp(*hosp))
}

// ListDoctors handles GET /api/hospitals/:id/doctors.
func (h *HospitalHandler) ListDoctors(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// Verify the hospital exists so an unknown id is a 404, not an empty list.
	if _, err := h.Hospitals.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hospital not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	doctors, err := h.People.ListByRole(c.Request().Context(), model.RoleDoctor, &id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toPersonResps(doctors)})
}
