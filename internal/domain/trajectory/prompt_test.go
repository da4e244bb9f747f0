package trajectory

import (
	"strings"
	"testing"
)

func TestBuildTrajectoryPrompt_EmbedsProfile(t *testing.T) {
	p := PatientProfile{Diagnosis: "Pneumonia", Age: 65}
	prompt := BuildTrajectoryPrompt(p)

	if !strings.Contains(prompt, "Pneumonia") {
		t.Error("expected prompt to contain the diagnosis label")
	}
	if !strings.Contains(prompt, "65") {
		t.Error("expected prompt to contain the age value")
	}
	if !strings.Contains(prompt, "Comorbidities: None") {
		t.Error("expected empty comorbidities to render as None")
	}
}

func TestBuildTrajectoryPrompt_ComorbidityJoin(t *testing.T) {
	p := PatientProfile{Diagnosis: "Sepsis", Age: 42, Comorbidities: []string{"Diabetes", "COPD"}}
	prompt := BuildTrajectoryPrompt(p)

	if !strings.Contains(prompt, "Comorbidities: Diabetes, COPD") {
		t.Error("expected comma-space-joined comorbidities in submission order")
	}
}

func TestBuildTrajectoryPrompt_InstructsSevenDays(t *testing.T) {
	prompt := BuildTrajectoryPrompt(PatientProfile{Diagnosis: "Pneumonia", Age: 65})

	if got := strings.Count(prompt, `"day":`); got != TrajectoryDays {
		t.Errorf("expected %d day placeholders, got %d", TrajectoryDays, got)
	}
	if !strings.Contains(prompt, `"day": 7`) {
		t.Error("expected placeholder for day 7")
	}
	for _, field := range []string{`"hr"`, `"bp_sys"`, `"temp_c"`, `"wbc_count"`, `"note"`} {
		if !strings.Contains(prompt, field) {
			t.Errorf("expected prompt to name field %s", field)
		}
	}
}

func TestBuildTrajectoryPrompt_Deterministic(t *testing.T) {
	p := PatientProfile{Diagnosis: "Heart Failure Exacerbation", Age: 80, Comorbidities: []string{"Smoker"}}
	if BuildTrajectoryPrompt(p) != BuildTrajectoryPrompt(p) {
		t.Error("expected identical prompts for identical profiles")
	}
}

func TestBuildSummaryPrompt_Detailed(t *testing.T) {
	traj := validTrajectory()
	prompt := BuildSummaryPrompt(traj, SummaryDetailed)

	if !strings.Contains(prompt, "day-by-day") {
		t.Error("expected detailed prompt to ask for a day-by-day list")
	}
	if !strings.Contains(prompt, "narrative paragraph") {
		t.Error("expected detailed prompt to ask for a narrative paragraph")
	}
	if !strings.Contains(prompt, `"trajectory"`) {
		t.Error("expected serialized trajectory data in the prompt")
	}
}

func TestBuildSummaryPrompt_Brief(t *testing.T) {
	prompt := BuildSummaryPrompt(validTrajectory(), SummaryBrief)

	if !strings.Contains(prompt, BriefLeadIn) {
		t.Errorf("expected brief prompt to demand the %q lead-in", BriefLeadIn)
	}
	if !strings.Contains(prompt, "exactly one sentence") {
		t.Error("expected brief prompt to demand a single sentence")
	}
}

func TestSummaryMaxTokens(t *testing.T) {
	if summaryMaxTokens(SummaryBrief) >= summaryMaxTokens(SummaryDetailed) {
		t.Error("expected brief budget to be smaller than detailed budget")
	}
}
