package report

import "strings"

// Participation type labels.
const (
	TypeInstructorAYCE = "TT + Instructor + AYCE"
	TypeInstructor     = "TT + Instructor"
	TypeAYCE           = "TT + AYCE"
	TypeTTOnly         = "TT Only"
)

// Derived holds the display fields computed from a participant at output
// time. It is never stored back on the participant.
type Derived struct {
	ClassGroup        string
	DayCount          int
	DayCountLabel     string
	DaysDisplay       string
	IsAYCE            bool
	ParticipationType string
	Vehicle           string
}

// Derive computes the display fields from the participant's current state.
// Only the Time Trials day set counts towards the day fields.
func (p *Participant) Derive() Derived {
	ayce := p.IsTimeTrials && p.IsAdvancedProgram
	return Derived{
		ClassGroup:        ClassFamily(p.Vehicle.Class),
		DayCount:          p.DaysTimeTrials.Len(),
		DayCountLabel:     DayCountLabel(p.DaysTimeTrials.Len()),
		DaysDisplay:       DaysDisplay(p.DaysTimeTrials),
		IsAYCE:            ayce,
		ParticipationType: ParticipationType(p.IsInstructor, ayce),
		Vehicle:           VehicleDisplay(p.Vehicle),
	}
}

// DayCountLabel buckets a day count: "1 Day", "2 Days", "3 Days", or "" for none.
func DayCountLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 Day"
	case n == 2:
		return "2 Days"
	default:
		return "3 Days"
	}
}

// DaysDisplay renders a day set as "All 3", "Fri/Sat", "Fri/Sun", "Sat/Sun",
// a single day name, or "".
func DaysDisplay(days DaySet) string {
	switch days.Len() {
	case 3:
		return "All 3"
	case 2:
		switch {
		case days.Has(Friday) && days.Has(Saturday):
			return "Fri/Sat"
		case days.Has(Friday) && days.Has(Sunday):
			return "Fri/Sun"
		default:
			return "Sat/Sun"
		}
	case 1:
		return days.Days()[0].String()
	default:
		return ""
	}
}

// ParticipationType labels how a Time Trials participant overlaps with the
// other programs. Instructor plus AYCE takes precedence over either alone.
func ParticipationType(isInstructor, isAYCE bool) string {
	switch {
	case isInstructor && isAYCE:
		return TypeInstructorAYCE
	case isInstructor:
		return TypeInstructor
	case isAYCE:
		return TypeAYCE
	default:
		return TypeTTOnly
	}
}

// VehicleDisplay joins the non-empty year, make and model with single spaces.
func VehicleDisplay(v Vehicle) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{v.Year, v.Make, v.Model} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
