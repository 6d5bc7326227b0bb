package report

import (
	"sort"
	"strings"
)

// Column identifies one of the fixed report columns.
type Column string

// Report columns, in output order.
const (
	ColFirstName         Column = "first_name"
	ColLastName          Column = "last_name"
	ColEmail             Column = "email"
	ColMemberID          Column = "member_id"
	ColClass             Column = "class"
	ColClassGroup        Column = "class_group"
	ColVehicleNumber     Column = "vehicle_number"
	ColVehicle           Column = "vehicle"
	ColColor             Column = "color"
	ColTire              Column = "tire"
	ColSponsor           Column = "sponsor"
	ColDaysTT            Column = "days_tt"
	ColDayCount          Column = "day_count"
	ColInstructor        Column = "instructor"
	ColAYCE              Column = "ayce"
	ColParticipationType Column = "participation_type"
	ColStatus            Column = "status"
)

// Columns is the report schema.
var Columns = []Column{
	ColFirstName, ColLastName, ColEmail, ColMemberID, ColClass, ColClassGroup,
	ColVehicleNumber, ColVehicle, ColColor, ColTire, ColSponsor, ColDaysTT,
	ColDayCount, ColInstructor, ColAYCE, ColParticipationType, ColStatus,
}

// DefaultHeaders are the English column titles.
var DefaultHeaders = map[Column]string{
	ColFirstName:         "First Name",
	ColLastName:          "Last Name",
	ColEmail:             "Email",
	ColMemberID:          "Member ID",
	ColClass:             "Class",
	ColClassGroup:        "Class Group",
	ColVehicleNumber:     "Vehicle #",
	ColVehicle:           "Vehicle",
	ColColor:             "Color",
	ColTire:              "Tire",
	ColSponsor:           "Sponsor",
	ColDaysTT:            "Days (TT)",
	ColDayCount:          "Day Count",
	ColInstructor:        "Instructor",
	ColAYCE:              "AYCE",
	ColParticipationType: "Participation Type",
	ColStatus:            "Status",
}

const (
	yes = "Yes"
	no  = "No"
)

// Row is one report line.
type Row struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	MemberID          string `json:"memberId"`
	Class             string `json:"class"`
	ClassGroup        string `json:"classGroup"`
	VehicleNumber     string `json:"vehicleNumber"`
	Vehicle           string `json:"vehicle"`
	Color             string `json:"color"`
	Tire              string `json:"tire"`
	Sponsor           string `json:"sponsor"`
	DaysTT            string `json:"daysTT"`
	DayCount          string `json:"dayCount"`
	Instructor        string `json:"instructor"`
	AYCE              string `json:"ayce"`
	ParticipationType string `json:"participationType"`
	Status            string `json:"status"`
}

// Values returns the cells in Columns order.
func (r Row) Values() []string {
	return []string{
		r.FirstName, r.LastName, r.Email, r.MemberID, r.Class, r.ClassGroup,
		r.VehicleNumber, r.Vehicle, r.Color, r.Tire, r.Sponsor, r.DaysTT,
		r.DayCount, r.Instructor, r.AYCE, r.ParticipationType, r.Status,
	}
}

// Report is the assembled output and its participant count.
type Report struct {
	Rows  []Row
	Count int
}

// Assemble keeps Time Trials participants only, sorts them by last then
// first name (case-insensitive, identity key as tie-breaker) and renders
// one row each.
func Assemble(r *Roster) Report {
	selected := make([]*Participant, 0, r.Len())
	for _, p := range r.participants {
		if p.IsTimeTrials {
			selected = append(selected, p)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if la, lb := strings.ToLower(a.LastName), strings.ToLower(b.LastName); la != lb {
			return la < lb
		}
		if fa, fb := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName); fa != fb {
			return fa < fb
		}
		return a.Key < b.Key
	})

	rows := make([]Row, 0, len(selected))
	for _, p := range selected {
		rows = append(rows, newRow(p))
	}

	return Report{Rows: rows, Count: len(rows)}
}

// Build runs aggregation, enrichment and assembly over one event's rows.
func Build(in Input) Report {
	roster := Aggregate(in.Entries)
	roster.Enrich(in.Attendees, in.Assignments)
	return Assemble(roster)
}

func newRow(p *Participant) Row {
	d := p.Derive()
	return Row{
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Email:             p.Email,
		MemberID:          p.MemberID,
		Class:             p.Vehicle.Class,
		ClassGroup:        d.ClassGroup,
		VehicleNumber:     p.Vehicle.VehicleNumber,
		Vehicle:           d.Vehicle,
		Color:             p.Vehicle.Color,
		Tire:              p.TireBrand,
		Sponsor:           p.Vehicle.Sponsor,
		DaysTT:            d.DaysDisplay,
		DayCount:          d.DayCountLabel,
		Instructor:        yesNo(p.IsInstructor),
		AYCE:              yesNo(d.IsAYCE),
		ParticipationType: d.ParticipationType,
		Status:            p.Status,
	}
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
