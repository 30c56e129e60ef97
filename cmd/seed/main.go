// Command seed creates the database tables and populates them with demo
// data: 10 hospitals, 10 doctors and 20 staff at each hospital, 200 patients
// and a pair of login users. Population is skipped when hospitals already
// exist, so the command is safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iliyamo/appointment-scheduler/internal/config"
	"github.com/iliyamo/appointment-scheduler/internal/database"
	"github.com/iliyamo/appointment-scheduler/internal/model"
	"github.com/iliyamo/appointment-scheduler/internal/repository"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS hospitals (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL,
		timezone VARCHAR(50) NOT NULL,
		open_time VARCHAR(5) NOT NULL,
		close_time VARCHAR(5) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS people (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		role ENUM('DOCTOR','STAFF','PATIENT') NOT NULL,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(20) NULL,
		email VARCHAR(255) NULL UNIQUE,
		hospital_id BIGINT UNSIGNED NULL,
		specialty VARCHAR(100) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_people_hospital FOREIGN KEY (hospital_id) REFERENCES hospitals(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
		person_id BIGINT UNSIGNED NULL,
		refresh_token_hash VARCHAR(255) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_users_person FOREIGN KEY (person_id) REFERENCES people(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		doctor_id BIGINT UNSIGNED NOT NULL,
		patient_id BIGINT UNSIGNED NULL,
		appointment_time DATETIME NOT NULL,
		created_by CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY idx_unique_doctor_timeslot (doctor_id, appointment_time),
		CONSTRAINT fk_appointments_doctor FOREIGN KEY (doctor_id) REFERENCES people(id),
		CONSTRAINT fk_appointments_patient FOREIGN KEY (patient_id) REFERENCES people(id),
		CONSTRAINT fk_appointments_user FOREIGN KEY (created_by) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	log.Println("creating database tables...")
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("create table: %v", err)
		}
	}
	log.Println("tables created")

	if err := populate(ctx, db, cfg); err != nil {
		log.Fatalf("populate: %v", err)
	}
}

func populate(ctx context.Context, db *sql.DB, cfg config.Config) error {
	// Skip if data already exists.
	var existing int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hospitals").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		log.Println("data already exists; skipping population")
		return nil
	}

	log.Println("populating database with demo data...")
	hospitals := repository.NewHospitalRepo(db)
	people := repository.NewPersonRepo(db)
	users := repository.NewUserRepo(db)

	hospitalIDs := make([]uint64, 0, 10)
	for i := 0; i < 10; i++ {
		h := &model.Hospital{
			Name:      fmt.Sprintf("%s %s Hospital", pick(hospitalPrefixes), pick(hospitalKinds)),
			Address:   fmt.Sprintf("%d %s, %s", 100+rand.Intn(900), pick(streets), pick(cities)),
			Timezone:  pick(timezones),
			OpenTime:  fmt.Sprintf("%02d:00", 6+rand.Intn(4)),  // opens 06:00–09:00
			CloseTime: fmt.Sprintf("%02d:00", 17+rand.Intn(6)), // closes 17:00–22:00
		}
		if err := hospitals.Create(ctx, h); err != nil {
			return fmt.Errorf("create hospital: %w", err)
		}
		hospitalIDs = append(hospitalIDs, h.ID)
	}

	var firstPatientID uint64
	seq := 0
	for _, hid := range hospitalIDs {
		hid := hid
		for i := 0; i < 10; i++ {
			seq++
			specialty := pick(specialties)
			p := &model.Person{
				Role:       model.RoleDoctor,
				Name:       "Dr. " + fakeName(),
				Phone:      fakePhone(),
				Email:      fakeEmail(seq),
				HospitalID: &hid,
				Specialty:  &specialty,
			}
			if err := people.Create(ctx, p); err != nil {
				return fmt.Errorf("create doctor: %w", err)
			}
		}
		for i := 0; i < 20; i++ {
			seq++
			p := &model.Person{
				Role:       model.RoleStaff,
				Name:       fakeName(),
				Phone:      fakePhone(),
				Email:      fakeEmail(seq),
				HospitalID: &hid,
			}
			if err := people.Create(ctx, p); err != nil {
				return fmt.Errorf("create staff: %w", err)
			}
		}
	}
	for i := 0; i < 200; i++ {
		seq++
		p := &model.Person{
			Role:  model.RolePatient,
			Name:  fakeName(),
			Phone: fakePhone(),
			Email: fakeEmail(seq),
		}
		if err := people.Create(ctx, p); err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
		if firstPatientID == 0 {
			firstPatientID = p.ID
		}
	}

	// Demo login accounts. Passwords come from the environment so the demo
	// credentials never end up in source control.
	adminPass := envDefault("SEED_ADMIN_PASSWORD", "admin-changeme-1")
	demoPass := envDefault("SEED_DEMO_PASSWORD", "demo-changeme-1")

	if _, err := users.Create(ctx, "admin@example.com", adminPass, cfg.BcryptCost, true, nil); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if _, err := users.Create(ctx, "demo@example.com", demoPass, cfg.BcryptCost, false, &firstPatientID); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	log.Println("database populated with demo data")
	return nil
}

// ----- sample data -----

var (
	firstNames = []string{"Alice", "Ben", "Carla", "David", "Elena", "Farid", "Grace", "Hugo", "Irene", "Jonas",
		"Karim", "Laura", "Marco", "Nadia", "Omar", "Paula", "Quentin", "Rosa", "Samir", "Tara"}
	lastNames = []string{"Anderson", "Bauer", "Costa", "Dimitrov", "Eriksen", "Ferrari", "Garcia", "Haddad",
		"Ivanov", "Jensen", "Kovacs", "Lindberg", "Moreau", "Novak", "Okafor", "Petrov", "Quinn", "Rossi",
		"Schmidt", "Tanaka"}
	hospitalPrefixes = []string{"Saint Mary", "Riverside", "Northgate", "Central", "Lakeview", "Highland",
		"Westfield", "Oakwood", "Harbor", "Summit"}
	hospitalKinds = []string{"General", "Memorial", "University", "Community", "Regional"}
	streets       = []string{"Main Street", "Oak Avenue", "Park Road", "Hill Street", "Station Road",
		"Church Lane", "Elm Drive", "Maple Court"}
	cities      = []string{"Springfield", "Riverton", "Lakeside", "Fairview", "Greenville", "Brookfield"}
	timezones   = []string{"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "Europe/Berlin", "Europe/Madrid"}
	specialties = []string{"Cardiology", "Dermatology", "Neurology", "Oncology", "Orthopedics", "Pediatrics",
		"Psychiatry", "Radiology", "General Practice"}
)

func pick(xs []string) string { return xs[rand.Intn(len(xs))] }

func fakeName() string { return pick(firstNames) + " " + pick(lastNames) }

func fakePhone() *string {
	s := fmt.Sprintf("+1-555-%03d-%04d", rand.Intn(1000), rand.Intn(10000))
	return &s
}

// fakeEmail builds a unique contact email; seq keeps the column's unique
// constraint satisfied across duplicate generated names.
func fakeEmail(seq int) *string {
	s := fmt.Sprintf("%s.%s.%d@example.org",
		strings.ToLower(pick(firstNames)), strings.ToLower(pick(lastNames)), seq)
	return &s
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
