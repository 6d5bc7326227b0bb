package report

// Day is one of the three event days.
type Day uint8

const (
	Friday Day = 1 << iota
	Saturday
	Sunday
)

var allDays = []Day{Friday, Saturday, Sunday}

func (d Day) String() string {
	switch d {
	case Friday:
		return "Friday"
	case Saturday:
		return "Saturday"
	case Sunday:
		return "Sunday"
	default:
		return ""
	}
}

// DaySet is a grow-only set of event days.
type DaySet struct {
	bits Day
}

// NewDaySet returns a set holding the given days.
func NewDaySet(days ...Day) DaySet {
	var s DaySet
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// Add inserts a day. Unknown values are ignored.
func (s *DaySet) Add(d Day) {
	if d.String() == "" {
		return
	}
	s.bits |= d
}

// Has reports whether d is in the set.
func (s DaySet) Has(d Day) bool {
	return d != 0 && s.bits&d == d
}

// Len returns the number of days in the set.
func (s DaySet) Len() int {
	n := 0
	for _, d := range allDays {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days returns the members in Friday, Saturday, Sunday order.
func (s DaySet) Days() []Day {
	var out []Day
	for _, d := range allDays {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}
