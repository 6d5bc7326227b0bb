package report

// BuildAttendeeLookup indexes roster rows by identity. A later row for the
// same identity replaces an earlier one.
func BuildAttendeeLookup(attendees []AttendeeRecord) map[IdentityKey]AttendeeRecord {
	lookup := make(map[IdentityKey]AttendeeRecord, len(attendees))
	for _, a := range attendees {
		key := NewIdentityKey(a.FirstName, a.LastName)
		if key.Empty() {
			continue
		}
		lookup[key] = a
	}
	return lookup
}

// BuildTireLookup maps identities to tire brands taken from Time Trials
// assignment rows only. Rows without a brand are ignored and the last
// qualifying row wins. A brand that only appears on a non-Time-Trials row
// is never captured.
func BuildTireLookup(assignments []AssignmentRecord) map[IdentityKey]string {
	lookup := make(map[IdentityKey]string)
	for _, a := range assignments {
		key := NewIdentityKey(a.FirstName, a.LastName)
		if key.Empty() || !IsTimeTrials(a.Group) || a.TireBrand == "" {
			continue
		}
		lookup[key] = a.TireBrand
	}
	return lookup
}

// Enrich copies contact fields from the attendee roster and tire brands
// from the assignment feed onto existing participants. It never creates a
// participant.
func (r *Roster) Enrich(attendees []AttendeeRecord, assignments []AssignmentRecord) {
	attendeeLookup := BuildAttendeeLookup(attendees)
	tireLookup := BuildTireLookup(assignments)

	for key, p := range r.participants {
		if a, ok := attendeeLookup[key]; ok {
			p.Email = a.Email
			p.MemberID = a.MemberID
			p.Status = a.Status
		}
		if tire, ok := tireLookup[key]; ok {
			p.TireBrand = tire
		}
	}
}
