package trajectory

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// responseWithDays renders a model response with n well-formed day entries.
func responseWithDays(n int) string {
	var b strings.Builder
	b.WriteString(`{"trajectory": [`)
	for day := 1; day <= n; day++ {
		if day > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b,
			`{"day": %d, "hr": %d, "bp_sys": %d, "temp_c": %.1f, "wbc_count": %.1f, "note": "Day %d note."}`,
			day, 95-day, 140-2*day, 38.8-0.3*float64(day), 15.2-float64(day), day)
	}
	b.WriteString("]}")
	return b.String()
}

// validResponse renders a well-formed 7-day model response.
func validResponse() string {
	return responseWithDays(TrajectoryDays)
}

func validTrajectory() *Trajectory {
	t, err := ParseTrajectory(validResponse())
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseTrajectory_Valid(t *testing.T) {
	traj, err := ParseTrajectory(validResponse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(traj.Days) != TrajectoryDays {
		t.Fatalf("expected %d days, got %d", TrajectoryDays, len(traj.Days))
	}
	for i, d := range traj.Days {
		if d.Day != i+1 {
			t.Errorf("expected day %d at index %d, got %d", i+1, i, d.Day)
		}
		if d.Note == "" {
			t.Errorf("expected non-empty note for day %d", d.Day)
		}
	}
}

func TestParseTrajectory_Idempotent(t *testing.T) {
	first, err := ParseTrajectory(validResponse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reserialized, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	second, err := ParseTrajectory(string(reserialized))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected parse ∘ serialize ∘ parse to be identity")
	}
}

func TestParseTrajectory_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n  "},
		{"non-JSON text", "The patient is doing well."},
		{"missing trajectory key", `{"days": []}`},
		{"trajectory not an array", `{"trajectory": "seven days"}`},
		{"six day entries", responseWithDays(6)},
		{"eight day entries", responseWithDays(8)},
		{"missing note field", strings.Replace(validResponse(), `, "note": "Day 1 note."`, ``, 1)},
		{"note is a number", strings.Replace(validResponse(), `"note": "Day 1 note."`, `"note": 12`, 1)},
		{"hr is a string", strings.Replace(validResponse(), `"hr": 94`, `"hr": "94"`, 1)},
		{"day values out of order", strings.Replace(validResponse(), `{"day": 2`, `{"day": 5`, 1)},
		{"trailing prose", validResponse() + " Hope this helps!"},
		{"leading prose", "Here you go: " + validResponse()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTrajectory(tc.raw)
			if err == nil {
				t.Fatal("expected FormatError")
			}
			var fmtErr *FormatError
			if !errors.As(err, &fmtErr) {
				t.Fatalf("expected FormatError, got %T", err)
			}
			if fmtErr.Raw != tc.raw {
				t.Error("expected the raw offending text to be retained verbatim")
			}
		})
	}
}

func TestParseTrajectory_MarkdownFencedResponse(t *testing.T) {
	raw := "Sure! ```json " + validResponse() + "```"
	_, err := ParseTrajectory(raw)
	if err == nil {
		t.Fatal("expected FormatError for fenced response")
	}
	var fmtErr *FormatError
	if !errors.As(err, &fmtErr) {
		t.Fatalf("expected FormatError, got %T", err)
	}
	if fmtErr.Raw != raw {
		t.Errorf("expected raw text retained verbatim, got %q", fmtErr.Raw)
	}
}
