package report

import "strings"

// Participant is the aggregated record of one unique identity. Flags and
// day sets only ever grow; vehicle fields keep the last non-empty value.
type Participant struct {
	Key       IdentityKey
	FirstName string
	LastName  string

	IsTimeTrials      bool
	IsInstructor      bool
	IsAdvancedProgram bool

	DaysTimeTrials DaySet
	DaysInstructor DaySet
	DaysAdvanced   DaySet

	Vehicle   Vehicle
	TireBrand string

	Email    string
	MemberID string
	Status   string
}

func newParticipant(key IdentityKey, rec ParticipationRecord) *Participant {
	return &Participant{
		Key:       key,
		FirstName: strings.TrimSpace(rec.FirstName),
		LastName:  strings.TrimSpace(rec.LastName),
	}
}

// MergeField returns incoming when it is non-empty, otherwise current.
func MergeField(current, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return current
}

// Merge applies the last-non-empty rule to every vehicle field independently.
func (v Vehicle) Merge(incoming Vehicle) Vehicle {
	return Vehicle{
		Class:         MergeField(v.Class, incoming.Class),
		Make:          MergeField(v.Make, incoming.Make),
		Model:         MergeField(v.Model, incoming.Model),
		Year:          MergeField(v.Year, incoming.Year),
		VehicleNumber: MergeField(v.VehicleNumber, incoming.VehicleNumber),
		Color:         MergeField(v.Color, incoming.Color),
		Sponsor:       MergeField(v.Sponsor, incoming.Sponsor),
	}
}

// apply folds one non-worker row into the participant. Only Time Trials
// rows touch the vehicle fields.
func (p *Participant) apply(rec ParticipationRecord) {
	day, hasDay := ParseDay(rec.Segment)

	if IsTimeTrials(rec.Group) {
		p.IsTimeTrials = true
		if hasDay {
			p.DaysTimeTrials.Add(day)
		}
		p.Vehicle = p.Vehicle.Merge(rec.Vehicle)
	}

	if IsInstructor(rec.Group) {
		p.IsInstructor = true
		if hasDay {
			p.DaysInstructor.Add(day)
		}
	}

	if IsAdvancedProgram(rec.Group) {
		p.IsAdvancedProgram = true
		if hasDay {
			p.DaysAdvanced.Add(day)
		}
	}
}
