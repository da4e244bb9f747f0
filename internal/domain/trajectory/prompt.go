package trajectory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SummaryMode selects how much prose the second model call asks for.
type SummaryMode string

const (
	// SummaryNone skips the second call entirely.
	SummaryNone SummaryMode = "none"
	// SummaryBrief asks for a single sentence with a fixed lead-in.
	SummaryBrief SummaryMode = "brief"
	// SummaryDetailed asks for a day-by-day list plus a narrative paragraph.
	SummaryDetailed SummaryMode = "detailed"
)

// BriefLeadIn is the fixed phrase a brief summary must start with.
const BriefLeadIn = "In plain terms,"

// Token budgets and sampling temperatures for the two calls. The trajectory
// call trades some determinism for variety; the summary call favors format
// adherence.
const (
	trajectoryMaxTokens   = 1500
	trajectoryTemperature = 0.7

	detailedSummaryMaxTokens = 500
	briefSummaryMaxTokens    = 120
	summaryTemperature       = 0.6
)

// BuildTrajectoryPrompt renders the instruction prompt for the structured
// trajectory call. Pure function of the profile: same input, same prompt.
func BuildTrajectoryPrompt(p PatientProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a clinical data simulator. Your task is to generate a realistic %d-day hospital trajectory for a patient.\n\n", TrajectoryDays)

	b.WriteString("Patient Profile:\n")
	fmt.Fprintf(&b, "- Diagnosis: %s\n", p.Diagnosis)
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	fmt.Fprintf(&b, "- Comorbidities: %s\n\n", p.ComorbidityList())

	b.WriteString("Generate daily values for: hr (integer heart rate), bp_sys (integer systolic blood pressure), temp_c (temperature in Celsius as a decimal), wbc_count (white blood cell count as a decimal), and note (a one-sentence clinical note).\n\n")

	b.WriteString("Respond only with a single valid JSON object in the following exact format. Do not include any other text, explanation, or markdown formatting.\n\n")

	b.WriteString("{\"trajectory\": [\n")
	for day := 1; day <= TrajectoryDays; day++ {
		fmt.Fprintf(&b, "    {\"day\": %d, \"hr\": 0, \"bp_sys\": 0, \"temp_c\": 0.0, \"wbc_count\": 0.0, \"note\": \"string\"}", day)
		if day < TrajectoryDays {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]}")

	return b.String()
}

// BuildSummaryPrompt renders the instruction prompt for the plain-language
// summary call. The trajectory has already passed strict validation, so its
// serialization never fails.
func BuildSummaryPrompt(t *Trajectory, mode SummaryMode) string {
	data, _ := json.Marshal(t)

	if mode == SummaryBrief {
		var b strings.Builder
		b.WriteString("Analyze the following clinical JSON data describing a hospital stay. ")
		fmt.Fprintf(&b, "Respond with exactly one sentence, beginning with %q, that describes the patient's overall progress for a non-medical person. ", BriefLeadIn)
		b.WriteString("Do not include anything else.\n\n")
		fmt.Fprintf(&b, "Data: %s", data)
		return b.String()
	}

	var b strings.Builder
	b.WriteString("Analyze the following clinical JSON data. Your task is to create a summary for a non-medical person.\n")
	b.WriteString("The summary must have two parts:\n")
	b.WriteString("1. A day-by-day list of the key metrics (HR, BP, Temp, WBC).\n")
	b.WriteString("2. A concluding narrative paragraph that describes the patient's overall progress.\n\n")
	b.WriteString("Example format:\n")
	b.WriteString("Day 1: HR 95, BP 140, Temp 38.8°C, WBC 15.2\n")
	b.WriteString("Day 2: HR 92, BP 135, Temp 38.1°C, WBC 13.5\n")
	b.WriteString("...\n")
	b.WriteString("Day 7: HR 78, BP 120, Temp 36.7°C, WBC 8.1\n\n")
	b.WriteString("The synthetic patient showed significant improvement over the course of treatment, with fever subsiding, white blood cell count decreasing, and vital signs stabilizing, ultimately leading to a successful discharge on the seventh day.\n\n")
	fmt.Fprintf(&b, "Now, generate a similar summary for this data:\nData: %s", data)
	return b.String()
}

// summaryMaxTokens returns the token budget for the given verbosity mode.
func summaryMaxTokens(mode SummaryMode) int {
	if mode == SummaryBrief {
		return briefSummaryMaxTokens
	}
	return detailedSummaryMaxTokens
}
