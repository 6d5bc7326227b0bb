package report

// Roster owns the participants of one report-generation call, keyed by
// identity. It is built by Aggregate, augmented by Enrich and consumed by
// Assemble; nothing outlives the call.
type Roster struct {
	participants map[IdentityKey]*Participant
	order        []IdentityKey
}

// Aggregate folds entry list rows, in order, into one participant per
// identity. Worker-only rows and rows without a name are skipped before
// any participant is created.
func Aggregate(entries []ParticipationRecord) *Roster {
	r := &Roster{participants: make(map[IdentityKey]*Participant)}

	for _, rec := range entries {
		if IsWorkerOnly(rec.Segment) {
			continue
		}

		key := NewIdentityKey(rec.FirstName, rec.LastName)
		if key.Empty() {
			continue
		}

		p, ok := r.participants[key]
		if !ok {
			p = newParticipant(key, rec)
			r.participants[key] = p
			r.order = append(r.order, key)
		}
		p.apply(rec)
	}

	return r
}

// Len returns the number of unique participants.
func (r *Roster) Len() int {
	return len(r.participants)
}

// Get returns the participant for key, if any.
func (r *Roster) Get(key IdentityKey) (*Participant, bool) {
	p, ok := r.participants[key]
	return p, ok
}

// Participants returns the participants in first-sighting order.
func (r *Roster) Participants() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.participants[k])
	}
	return out
}
