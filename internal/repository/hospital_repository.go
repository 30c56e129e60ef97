// This file defines repository methods for hospitals. A Hospital is the
// venue doctors and staff work out of; browse endpoints expose the full
// record since there is nothing sensitive on it.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/appointment-scheduler/internal/model"
)

// ErrHospitalNotFound is returned when a hospital cannot be found in the DB.
var ErrHospitalNotFound = errors.New("hospital not found")

// HospitalRepo encapsulates all database queries related to hospitals. It
// depends on a sql.DB connection which should be configured elsewhere.
type HospitalRepo struct {
	db *sql.DB
}

// NewHospitalRepo constructs a HospitalRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewHospitalRepo(db *sql.DB) *HospitalRepo {
	return &HospitalRepo{db: db}
}

// Create inserts a new hospital. On success the ID field is populated with
// the auto-generated value.
func (r *HospitalRepo) Create(ctx context.Context, h *model.Hospital) error {
	const q = "INSERT INTO hospitals (name, address, timezone, open_time, close_time) VALUES (?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Address, h.Timezone, h.OpenTime, h.CloseTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID fetches a hospital by its ID. It returns ErrHospitalNotFound if no
// row is found.
func (r *HospitalRepo) GetByID(ctx context.Context, id uint64) (*model.Hospital, error) {
	const q = "SELECT id, name, address, timezone, open_time, close_time, created_at FROM hospitals WHERE id = ?"
	var h model.Hospital
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.Name, &h.Address, &h.Timezone, &h.OpenTime, &h.CloseTime, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHospitalNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all hospitals ordered by name.
func (r *HospitalRepo) List(ctx context.Context) ([]model.Hospital, error) {
	const q = "SELECT id, name, address, timezone, open_time, close_time, created_at FROM hospitals ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Hospital, 0)
	for rows.Next() {
		var h model.Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Timezone, &h.OpenTime, &h.CloseTime, &h.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
