package trajectory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TrajectoryDays is the fixed length of every generated trajectory.
const TrajectoryDays = 7

// DefaultAge is the form's preselected patient age.
const DefaultAge = 65

// Diagnoses is the closed set of admission diagnoses the form offers.
var Diagnoses = []string{
	"Pneumonia",
	"Heart Failure Exacerbation",
	"Post-Op Hip Replacement",
	"Sepsis",
}

// Comorbidities is the closed set of comorbidity labels the form offers.
var Comorbidities = []string{
	"Diabetes",
	"Hypertension",
	"COPD",
	"Smoker",
}

// PatientProfile is the immutable input to one generation. Comorbidity order
// is preserved as submitted.
type PatientProfile struct {
	Diagnosis     string   `json:"diagnosis"`
	Age           int      `json:"age"`
	Comorbidities []string `json:"comorbidities"`
}

// Validate checks the profile against the closed label sets and the
// configured age bounds.
func (p *PatientProfile) Validate(ageMin, ageMax int) error {
	if p.Diagnosis == "" {
		return fmt.Errorf("diagnosis is required")
	}
	if !contains(Diagnoses, p.Diagnosis) {
		return fmt.Errorf("unknown diagnosis: %q", p.Diagnosis)
	}
	if p.Age < ageMin || p.Age > ageMax {
		return fmt.Errorf("age must be between %d and %d, got %d", ageMin, ageMax, p.Age)
	}
	for _, c := range p.Comorbidities {
		if !contains(Comorbidities, c) {
			return fmt.Errorf("unknown comorbidity: %q", c)
		}
	}
	return nil
}

// ComorbidityList renders the comorbidities the way the prompts embed them:
// "None" when empty, otherwise comma-space-joined in submission order.
func (p *PatientProfile) ComorbidityList() string {
	if len(p.Comorbidities) == 0 {
		return "None"
	}
	return strings.Join(p.Comorbidities, ", ")
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Day is one day of the generated trajectory.
type Day struct {
	Day      int     `json:"day"`
	HR       int     `json:"hr"`
	BPSys    int     `json:"bp_sys"`
	TempC    float64 `json:"temp_c"`
	WBCCount float64 `json:"wbc_count"`
	Note     string  `json:"note"`
}

// Trajectory is the validated 7-day sequence. Day values are guaranteed to be
// 1..7 in order once the value has passed ParseTrajectory.
type Trajectory struct {
	Days []Day `json:"trajectory"`
}

// GenerationResult is the per-request output handed to the display layer. In
// payload error mode a failed generation is represented by a result with
// Trajectory nil, Error set, and RawResponse carrying the upstream text (when
// any was received).
type GenerationResult struct {
	ID          uuid.UUID   `json:"id"`
	Trajectory  *Trajectory `json:"trajectory,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Error       string      `json:"error,omitempty"`
	RawResponse string      `json:"raw_response,omitempty"`
}
