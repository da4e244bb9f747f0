package trajectory

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseTrajectory strictly validates raw model output against the required
// shape: a single JSON object {"trajectory": [... exactly 7 day entries ...]}
// with no surrounding prose. The external generator is not contractually
// guaranteed to follow instructions, so nothing here is forgiving: trailing
// text, markdown fences, missing keys, wrong field types, wrong entry counts,
// and out-of-order day numbers all fail with a FormatError that retains the
// offending text verbatim.
func ParseTrajectory(raw string) (*Trajectory, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &FormatError{Reason: "response is empty", Raw: raw}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var envelope struct {
		Trajectory []json.RawMessage `json:"trajectory"`
	}
	if err := dec.Decode(&envelope); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("response is not a JSON object: %v", err), Raw: raw}
	}

	// Anything after the object other than whitespace means the model added
	// prose or fencing around the JSON.
	if _, err := dec.Token(); err != io.EOF {
		return nil, &FormatError{Reason: "trailing content after JSON object", Raw: raw}
	}

	if envelope.Trajectory == nil {
		return nil, &FormatError{Reason: `missing "trajectory" key`, Raw: raw}
	}
	if len(envelope.Trajectory) != TrajectoryDays {
		return nil, &FormatError{
			Reason: fmt.Sprintf("expected %d day entries, got %d", TrajectoryDays, len(envelope.Trajectory)),
			Raw:    raw,
		}
	}

	t := &Trajectory{Days: make([]Day, 0, TrajectoryDays)}
	for i, entry := range envelope.Trajectory {
		day, err := parseDay(entry, i+1)
		if err != nil {
			return nil, &FormatError{Reason: err.Error(), Raw: raw}
		}
		t.Days = append(t.Days, day)
	}

	return t, nil
}

// dayWire mirrors Day with pointer fields so missing keys are detectable.
type dayWire struct {
	Day      *int     `json:"day"`
	HR       *int     `json:"hr"`
	BPSys    *int     `json:"bp_sys"`
	TempC    *float64 `json:"temp_c"`
	WBCCount *float64 `json:"wbc_count"`
	Note     *string  `json:"note"`
}

func parseDay(entry json.RawMessage, want int) (Day, error) {
	dec := json.NewDecoder(strings.NewReader(string(entry)))
	dec.DisallowUnknownFields()

	var w dayWire
	if err := dec.Decode(&w); err != nil {
		return Day{}, fmt.Errorf("day entry %d is malformed: %v", want, err)
	}

	missing := func(field string) (Day, error) {
		return Day{}, fmt.Errorf("day entry %d is missing field %q", want, field)
	}
	switch {
	case w.Day == nil:
		return missing("day")
	case w.HR == nil:
		return missing("hr")
	case w.BPSys == nil:
		return missing("bp_sys")
	case w.TempC == nil:
		return missing("temp_c")
	case w.WBCCount == nil:
		return missing("wbc_count")
	case w.Note == nil:
		return missing("note")
	}

	if *w.Day != want {
		return Day{}, fmt.Errorf("day entry %d has day value %d, expected %d", want, *w.Day, want)
	}

	return Day{
		Day:      *w.Day,
		HR:       *w.HR,
		BPSys:    *w.BPSys,
		TempC:    *w.TempC,
		WBCCount: *w.WBCCount,
		Note:     *w.Note,
	}, nil
}
