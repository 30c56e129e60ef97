// This file defines repository methods for person records. People are stored
// in a single table with a role tag (DOCTOR, STAFF, PATIENT) instead of the
// per-role tables of earlier schema drafts; role-specific columns are
// nullable.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/appointment-scheduler/internal/model"
)

// ErrPersonNotFound is returned when a person cannot be found in the DB.
var ErrPersonNotFound = errors.New("person not found")

// PersonRepo encapsulates all database queries related to people.
type PersonRepo struct {
	db *sql.DB
}

func NewPersonRepo(db *sql.DB) *PersonRepo {
	return &PersonRepo{db: db}
}

const personColumns = "id, role, name, phone, email, hospital_id, specialty, created_at"

// Create inserts a new person. On success the ID field is populated with the
// auto-generated value.
func (r *PersonRepo) Create(ctx context.Context, p *model.Person) error {
	const q = "INSERT INTO people (role, name, phone, email, hospital_id, specialty) VALUES (?,?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, p.Role, p.Name, p.Phone, p.Email, p.HospitalID, p.Specialty)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a person by its ID. It returns ErrPersonNotFound if no row
// is found.
func (r *PersonRepo) GetByID(ctx context.Context, id uint64) (*model.Person, error) {
	const q = "SELECT " + personColumns + " FROM people WHERE id = ?"
	row := r.db.QueryRowContext(ctx, q, id)
	p, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByRole returns people with the given role ordered by name. When
// hospitalID is non-nil the result is restricted to that hospital, which is
// how doctors of a single hospital are listed.
func (r *PersonRepo) ListByRole(ctx context.Context, role model.Role, hospitalID *uint64) ([]model.Person, error) {
	q := "SELECT " + personColumns + " FROM people WHERE role = ?"
	args := []any{role}
	if hospitalID != nil {
		q += " AND hospital_id = ?"
		args = append(args, *hospitalID)
	}
	q += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows so scanPerson serves both
// single-row and list queries.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*model.Person, error) {
	var (
		p          model.Person
		phone      sql.NullString
		email      sql.NullString
		hospitalID sql.NullInt64
		specialty  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Role, &p.Name, &phone, &email, &hospitalID, &specialty, &p.CreatedAt); err != nil {
		return nil, err
	}
	if phone.Valid {
		v := phone.String
		p.Phone = &v
	}
	if email.Valid {
		v := email.String
		p.Email = &v
	}
	if hospitalID.Valid {
		v := uint64(hospitalID.Int64)
		p.HospitalID = &v
	}
	if specialty.Valid {
		v := specialty.String
		p.Specialty = &v
	}
	return &p, nil
}
