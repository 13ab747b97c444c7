// Command seed provisions a development database with demo accounts,
// a linked parent, and a university catalog so the API is usable
// immediately after a fresh start.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/collegetrack/collegetrack-api/internal/models"
	"github.com/collegetrack/collegetrack-api/pkg/config"
	"github.com/collegetrack/collegetrack-api/pkg/database"
)

const demoPassword = "password123"

type universitySeed struct {
	Name            string
	Country         string
	State           string
	City            string
	Ranking         int
	AcceptanceRate  float64
	System          string
	TuitionInState  float64
	TuitionOutState float64
	Fee             float64
	Deadlines       models.DeadlineMap
	Majors          []string
}

func main() {
	var (
		schemaPath string
		timeout    time.Duration
	)
	flag.StringVar(&schemaPath, "schema", "", "Optional path to schema.sql to apply before seeding")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall seeding timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if schemaPath != "" {
		if err := applySchema(ctx, db, schemaPath); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
		log.Printf("applied schema from %s", schemaPath)
	}

	if err := seed(ctx, db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("seeding completed")
	log.Println("student account: student@demo.com /", demoPassword)
	log.Println("parent account:  parent@demo.com /", demoPassword)
}

func applySchema(ctx context.Context, db *sqlx.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(raw))
	return err
}

func seed(ctx context.Context, db *sqlx.DB) error {
	now := time.Now().UTC()

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	studentUser := models.User{
		ID:           uuid.NewString(),
		Email:        "student@demo.com",
		PasswordHash: string(hash),
		FirstName:    "Sarah",
		LastName:     "Johnson",
		Role:         models.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	parentUser := models.User{
		ID:           uuid.NewString(),
		Email:        "parent@demo.com",
		PasswordHash: string(hash),
		FirstName:    "Michael",
		LastName:     "Johnson",
		Role:         models.RoleParent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	const userQuery = `INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :role, :created_at, :updated_at)
        ON CONFLICT (email) DO NOTHING`
	for _, user := range []models.User{studentUser, parentUser} {
		if _, err := db.NamedExecContext(ctx, userQuery, user); err != nil {
			return err
		}
	}

	gradYear := 2025
	gpa := 3.85
	sat := 1450
	act := 32
	student := models.Student{
		ID:              uuid.NewString(),
		UserID:          studentUser.ID,
		Name:            "Sarah Johnson",
		Email:           studentUser.Email,
		GraduationYear:  &gradYear,
		GPA:             &gpa,
		SATScore:        &sat,
		ACTScore:        &act,
		TargetCountries: pq.StringArray{"United States"},
		IntendedMajors:  pq.StringArray{"Computer Science", "Data Science", "Mathematics"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	const studentQuery = `INSERT INTO students (id, user_id, name, email, graduation_year, gpa, sat_score, act_score, target_countries, intended_majors, created_at, updated_at)
        VALUES (:id, :user_id, :name, :email, :graduation_year, :gpa, :sat_score, :act_score, :target_countries, :intended_majors, :created_at, :updated_at)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := db.NamedExecContext(ctx, studentQuery, student); err != nil {
		return err
	}

	const relQuery = `INSERT INTO student_parent_relationships (id, student_id, parent_id, created_at)
        SELECT $1, s.id, $2, $3 FROM students s WHERE s.user_id = $4
        ON CONFLICT (student_id, parent_id) DO NOTHING`
	if _, err := db.ExecContext(ctx, relQuery, uuid.NewString(), parentUser.ID, now, studentUser.ID); err != nil {
		return err
	}

	return seedUniversities(ctx, db, now)
}

func seedUniversities(ctx context.Context, db *sqlx.DB, now time.Time) error {
	const uniQuery = `INSERT INTO universities (id, name, country, state, city, ranking, acceptance_rate, application_system, tuition_in_state, tuition_out_state, application_fee, deadlines, available_majors, created_at, updated_at)
        VALUES (:id, :name, :country, :state, :city, :ranking, :acceptance_rate, :application_system, :tuition_in_state, :tuition_out_state, :application_fee, :deadlines, :available_majors, :created_at, :updated_at)`
	const reqQuery = `INSERT INTO university_requirements (id, university_id, requirement_type, required, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (university_id, requirement_type) DO NOTHING`

	for _, s := range catalog() {
		var exists int
		err := db.GetContext(ctx, &exists, `SELECT 1 FROM universities WHERE name = $1`, s.Name)
		if err == nil {
			continue
		}

		university := models.University{
			ID:                uuid.NewString(),
			Name:              s.Name,
			Country:           s.Country,
			State:             s.State,
			City:              s.City,
			Ranking:           &s.Ranking,
			AcceptanceRate:    &s.AcceptanceRate,
			ApplicationSystem: s.System,
			TuitionInState:    &s.TuitionInState,
			TuitionOutState:   &s.TuitionOutState,
			ApplicationFee:    &s.Fee,
			Deadlines:         s.Deadlines,
			AvailableMajors:   pq.StringArray(s.Majors),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if _, err := db.NamedExecContext(ctx, uniQuery, university); err != nil {
			return err
		}

		for _, req := range requirementsFor(s.Name) {
			if _, err := db.ExecContext(ctx, reqQuery, uuid.NewString(), university.ID, req.RequirementType, req.Required, req.Description, now); err != nil {
				return err
			}
		}
	}
	return nil
}

type templateSeed struct {
	RequirementType models.RequirementType
	Required        bool
	Description     string
}

func requirementsFor(name string) []templateSeed {
	templates := []templateSeed{
		{models.RequirementEssay, true, "Personal statement or supplemental essays"},
		{models.RequirementTranscript, true, "Official high school transcript"},
		{models.RequirementRecommendation, true, "Letters of recommendation from teachers or counselors"},
	}
	if containsAny(name, "Massachusetts Institute", "Stanford", "California Institute") {
		templates = append(templates, templateSeed{models.RequirementPortfolio, false, "STEM research portfolio or projects"})
	}
	if containsAny(name, "New York University", "Southern California") {
		templates = append(templates, templateSeed{models.RequirementInterview, false, "Optional alumni interview"})
	}
	return templates
}

func containsAny(name string, fragments ...string) bool {
	for _, fragment := range fragments {
		if strings.Contains(name, fragment) {
			return true
		}
	}
	return false
}

func catalog() []universitySeed {
	return []universitySeed{
		{
			Name: "Harvard University", Country: "United States", State: "Massachusetts", City: "Cambridge",
			Ranking: 3, AcceptanceRate: 3.4, System: "Common App",
			TuitionInState: 59076, TuitionOutState: 59076, Fee: 85,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-12-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Economics", "Biology", "Psychology", "Mathematics"},
		},
		{
			Name: "Stanford University", Country: "United States", State: "California", City: "Stanford",
			Ranking: 3, AcceptanceRate: 3.9, System: "Common App",
			TuitionInState: 61731, TuitionOutState: 61731, Fee: 90,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-15T00:00:00Z",
				models.TrackRegularDecision: "2025-12-15T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Engineering", "Business", "Medicine", "Law"},
		},
		{
			Name: "Massachusetts Institute of Technology", Country: "United States", State: "Massachusetts", City: "Cambridge",
			Ranking: 2, AcceptanceRate: 4.1, System: "Direct",
			TuitionInState: 59750, TuitionOutState: 59750, Fee: 85,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-30T00:00:00Z",
				models.TrackRegularDecision: "2025-12-31T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Engineering", "Mathematics", "Physics", "Economics"},
		},
		{
			Name: "Princeton University", Country: "United States", State: "New Jersey", City: "Princeton",
			Ranking: 1, AcceptanceRate: 5.8, System: "Common App",
			TuitionInState: 59710, TuitionOutState: 59710, Fee: 75,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Economics", "Politics", "Engineering", "Mathematics"},
		},
		{
			Name: "Yale University", Country: "United States", State: "Connecticut", City: "New Haven",
			Ranking: 5, AcceptanceRate: 4.6, System: "Common App",
			TuitionInState: 64700, TuitionOutState: 64700, Fee: 80,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Economics", "History", "Political Science", "Biology"},
		},
		{
			Name: "University of Chicago", Country: "United States", State: "Illinois", City: "Chicago",
			Ranking: 6, AcceptanceRate: 7.4, System: "Common App",
			TuitionInState: 64965, TuitionOutState: 64965, Fee: 75,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Economics", "Computer Science", "Mathematics", "Physics", "Biology"},
		},
		{
			Name: "University of Pennsylvania", Country: "United States", State: "Pennsylvania", City: "Philadelphia",
			Ranking: 6, AcceptanceRate: 8.1, System: "Common App",
			TuitionInState: 63452, TuitionOutState: 63452, Fee: 75,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Business", "Computer Science", "Engineering", "Economics", "Biology"},
		},
		{
			Name: "California Institute of Technology", Country: "United States", State: "California", City: "Pasadena",
			Ranking: 9, AcceptanceRate: 6.4, System: "Common App",
			TuitionInState: 63255, TuitionOutState: 63255, Fee: 85,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Engineering", "Computer Science", "Physics", "Mathematics", "Chemistry"},
		},
		{
			Name: "Duke University", Country: "United States", State: "North Carolina", City: "Durham",
			Ranking: 10, AcceptanceRate: 7.8, System: "Common App",
			TuitionInState: 63054, TuitionOutState: 63054, Fee: 85,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Economics", "Biology", "Psychology", "Engineering"},
		},
		{
			Name: "Johns Hopkins University", Country: "United States", State: "Maryland", City: "Baltimore",
			Ranking: 9, AcceptanceRate: 11.5, System: "Common App",
			TuitionInState: 63340, TuitionOutState: 63340, Fee: 70,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Biology", "Medicine", "Engineering", "Public Health"},
		},
		{
			Name: "Northwestern University", Country: "United States", State: "Illinois", City: "Evanston",
			Ranking: 9, AcceptanceRate: 8.9, System: "Common App",
			TuitionInState: 64887, TuitionOutState: 64887, Fee: 75,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Engineering", "Journalism", "Business", "Economics"},
		},
		{
			Name: "Cornell University", Country: "United States", State: "New York", City: "Ithaca",
			Ranking: 17, AcceptanceRate: 10.9, System: "Common App",
			TuitionInState: 65204, TuitionOutState: 65204, Fee: 80,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Engineering", "Agriculture", "Business", "Architecture"},
		},
		{
			Name: "University of California, Los Angeles", Country: "United States", State: "California", City: "Los Angeles",
			Ranking: 20, AcceptanceRate: 14.3, System: "Direct",
			TuitionInState: 13804, TuitionOutState: 46326, Fee: 80,
			Deadlines: models.DeadlineMap{
				models.TrackRegularDecision: "2025-09-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Engineering", "Business", "Film", "Medicine"},
		},
		{
			Name: "University of Michigan", Country: "United States", State: "Michigan", City: "Ann Arbor",
			Ranking: 21, AcceptanceRate: 17.7, System: "Common App",
			TuitionInState: 17786, TuitionOutState: 57273, Fee: 75,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-12-01T00:00:00Z",
			},
			Majors: []string{"Computer Science", "Engineering", "Business", "Medicine", "Psychology"},
		},
		{
			Name: "New York University", Country: "United States", State: "New York", City: "New York",
			Ranking: 35, AcceptanceRate: 12.2, System: "Common App",
			TuitionInState: 60438, TuitionOutState: 60438, Fee: 80,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyDecision:   "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-01T00:00:00Z",
			},
			Majors: []string{"Business", "Film", "Computer Science", "Liberal Arts", "Performing Arts"},
		},
		{
			Name: "University of Southern California", Country: "United States", State: "California", City: "Los Angeles",
			Ranking: 28, AcceptanceRate: 12.4, System: "Common App",
			TuitionInState: 68237, TuitionOutState: 68237, Fee: 85,
			Deadlines: models.DeadlineMap{
				models.TrackEarlyAction:     "2025-09-01T00:00:00Z",
				models.TrackRegularDecision: "2025-11-15T00:00:00Z",
			},
			Majors: []string{"Film", "Business", "Computer Science", "Engineering", "Communications"},
		},
	}
}
