package report

import (
	"fmt"
	"strconv"
)

// Field names shared by the upstream entry list, attendee and assignment rows.
const (
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldSegment       = "segment"
	FieldGroup         = "group"
	FieldClass         = "class"
	FieldMake          = "make"
	FieldModel         = "model"
	FieldYear          = "year"
	FieldVehicleNumber = "vehicleNumber"
	FieldColor         = "color"
	FieldSponsor       = "sponsor"
	FieldEmail         = "email"
	FieldMemberID      = "memberId"
	FieldStatus        = "status"
	FieldTireBrand     = "tireBrand"
)

// ParticipationRecord is one entry list row.
type ParticipationRecord struct {
	FirstName string
	LastName  string
	Segment   string // e.g. "Saturday Time Trials"
	Group     string // e.g. "Time Trials - Sport 1"
	Vehicle   Vehicle
}

// Vehicle holds the vehicle attributes carried by a Time Trials entry.
type Vehicle struct {
	Class         string
	Make          string
	Model         string
	Year          string
	VehicleNumber string
	Color         string
	Sponsor       string
}

// AttendeeRecord is one attendee roster row.
type AttendeeRecord struct {
	FirstName string
	LastName  string
	Email     string
	MemberID  string
	Status    string
}

// AssignmentRecord is one assignment feed row.
type AssignmentRecord struct {
	FirstName string
	LastName  string
	Group     string
	TireBrand string
}

// Input bundles the three ordered row sequences of one event.
type Input struct {
	Entries     []ParticipationRecord
	Attendees   []AttendeeRecord
	Assignments []AssignmentRecord
}

// ParticipationFromMap converts a decoded CSV or JSON row.
func ParticipationFromMap(m map[string]any) ParticipationRecord {
	return ParticipationRecord{
		FirstName: stringField(m, FieldFirstName),
		LastName:  stringField(m, FieldLastName),
		Segment:   stringField(m, FieldSegment),
		Group:     stringField(m, FieldGroup),
		Vehicle: Vehicle{
			Class:         stringField(m, FieldClass),
			Make:          stringField(m, FieldMake),
			Model:         stringField(m, FieldModel),
			Year:          stringField(m, FieldYear),
			VehicleNumber: stringField(m, FieldVehicleNumber),
			Color:         stringField(m, FieldColor),
			Sponsor:       stringField(m, FieldSponsor),
		},
	}
}

// AttendeeFromMap converts a decoded CSV or JSON row.
func AttendeeFromMap(m map[string]any) AttendeeRecord {
	return AttendeeRecord{
		FirstName: stringField(m, FieldFirstName),
		LastName:  stringField(m, FieldLastName),
		Email:     stringField(m, FieldEmail),
		MemberID:  stringField(m, FieldMemberID),
		Status:    stringField(m, FieldStatus),
	}
}

// AssignmentFromMap converts a decoded CSV or JSON row.
func AssignmentFromMap(m map[string]any) AssignmentRecord {
	return AssignmentRecord{
		FirstName: stringField(m, FieldFirstName),
		LastName:  stringField(m, FieldLastName),
		Group:     stringField(m, FieldGroup),
		TireBrand: stringField(m, FieldTireBrand),
	}
}

// stringField reads a key as text. Absent and null values become "".
// JSON numbers keep their integer form so 2020 stays "2020", not "2020.000000".
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
