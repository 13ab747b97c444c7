package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Deadline track keys as stored in the universities.deadlines map.
const (
	TrackEarlyDecision    = "early_decision"
	TrackEarlyAction      = "early_action"
	TrackRegularDecision  = "regular_decision"
	TrackRollingAdmission = "rolling_admission"
)

// DeadlineMap maps a track key to an RFC3339 deadline string. It is
// persisted as a JSONB column.
type DeadlineMap map[string]string

// Value implements driver.Valuer for JSONB storage.
func (m DeadlineMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (m *DeadlineMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported deadline map source %T", src)
	}
	return json.Unmarshal(raw, m)
}

// University is static reference data; the application never mutates it.
type University struct {
	ID                string         `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	Country           string         `db:"country" json:"country"`
	State             string         `db:"state" json:"state,omitempty"`
	City              string         `db:"city" json:"city,omitempty"`
	Ranking           *int           `db:"ranking" json:"ranking,omitempty"`
	AcceptanceRate    *float64       `db:"acceptance_rate" json:"acceptance_rate,omitempty"`
	ApplicationSystem string         `db:"application_system" json:"application_system,omitempty"`
	TuitionInState    *float64       `db:"tuition_in_state" json:"tuition_in_state,omitempty"`
	TuitionOutState   *float64       `db:"tuition_out_state" json:"tuition_out_state,omitempty"`
	ApplicationFee    *float64       `db:"application_fee" json:"application_fee,omitempty"`
	Deadlines         DeadlineMap    `db:"deadlines" json:"deadlines"`
	AvailableMajors   pq.StringArray `db:"available_majors" json:"available_majors"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// DeadlineFor resolves the concrete deadline for an application track.
// The second return value reports whether the university publishes a
// deadline for that track; substitution of another track never happens.
func (u *University) DeadlineFor(appType ApplicationType) (time.Time, bool) {
	key, ok := appType.TrackKey()
	if !ok {
		return time.Time{}, false
	}
	raw, ok := u.Deadlines[key]
	if !ok || raw == "" {
		return time.Time{}, false
	}
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return deadline, true
}

// UniversityRequirement is a per-university requirement template used to
// seed application requirements at application creation time.
type UniversityRequirement struct {
	ID              string          `db:"id" json:"id"`
	UniversityID    string          `db:"university_id" json:"university_id"`
	RequirementType RequirementType `db:"requirement_type" json:"requirement_type"`
	Required        bool            `db:"required" json:"required"`
	Description     string          `db:"description" json:"description,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// UniversityFilter captures search criteria for the universities catalogue.
type UniversityFilter struct {
	Query             string
	Country           string
	State             string
	ApplicationSystem string
	MinRanking        *int
	MaxRanking        *int
	MaxTuition        *float64
	Page              int
	Limit             int
}

// Fingerprint derives a stable cache key component from the filter.
func (f UniversityFilter) Fingerprint() string {
	parts := []string{
		f.Query, f.Country, f.State, f.ApplicationSystem,
		intKey(f.MinRanking), intKey(f.MaxRanking), floatKey(f.MaxTuition),
		strconv.Itoa(f.Page), strconv.Itoa(f.Limit),
	}
	return strings.ToLower(strings.Join(parts, "|"))
}

func intKey(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatKey(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
