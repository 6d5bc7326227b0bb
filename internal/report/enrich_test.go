package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/hpde-analytics/internal/report"
)

func TestEnrich_CopiesAttendeeFields(t *testing.T) {
	roster := report.Aggregate([]report.ParticipationRecord{
		groupRow("John", "Doe", "Saturday Time Trials", "Time Trials"),
		groupRow("Jane", "Smith", "Saturday Time Trials", "Time Trials"),
	})

	roster.Enrich([]report.AttendeeRecord{
		{FirstName: "JOHN", LastName: "doe", Email: "john@example.com", MemberID: "M001", Status: "Confirmed"},
		{FirstName: "Jane", LastName: "Smith"},
	}, nil)

	john := mustGet(t, roster, "John", "Doe")
	assert.Equal(t, "john@example.com", john.Email)
	assert.Equal(t, "M001", john.MemberID)
	assert.Equal(t, "Confirmed", john.Status)

	jane := mustGet(t, roster, "Jane", "Smith")
	assert.Empty(t, jane.Email)
	assert.Empty(t, jane.MemberID)
	assert.Empty(t, jane.Status)
}

func TestEnrich_NeverCreatesParticipants(t *testing.T) {
	roster := report.Aggregate([]report.ParticipationRecord{
		groupRow("John", "Doe", "Saturday Time Trials", "Time Trials"),
	})

	roster.Enrich(
		[]report.AttendeeRecord{{FirstName: "Ghost", LastName: "Rider", Email: "ghost@example.com"}},
		[]report.AssignmentRecord{{FirstName: "Ghost", LastName: "Rider", Group: "Time Trials", TireBrand: "Toyo"}},
	)

	assert.Equal(t, 1, roster.Len())
}

func TestBuildTireLookup_LastQualifyingRowWins(t *testing.T) {
	lookup := report.BuildTireLookup([]report.AssignmentRecord{
		{FirstName: "John", LastName: "Doe", Group: "Time Trials - Sport 1", TireBrand: "Hoosier"},
		{FirstName: "John", LastName: "Doe", Group: "Time Trials - Sport 1", TireBrand: "Toyo"},
		{FirstName: "John", LastName: "Doe", Group: "Time Trials - Sport 1", TireBrand: ""},
		{FirstName: "John", LastName: "Doe", Group: "Advanced HPDE", TireBrand: "Nitto"},
	})

	assert.Equal(t, "Toyo", lookup[report.NewIdentityKey("John", "Doe")])
}

func TestBuildTireLookup_IgnoresNonTimeTrialsRows(t *testing.T) {
	// A brand that only appears on a non-TT row is never captured.
	lookup := report.BuildTireLookup([]report.AssignmentRecord{
		{FirstName: "Jane", LastName: "Smith", Group: "Time Trials - Max 2", TireBrand: ""},
		{FirstName: "Jane", LastName: "Smith", Group: "Advanced HPDE", TireBrand: "Michelin"},
		{FirstName: "", LastName: "", Group: "Time Trials", TireBrand: "Hankook"},
	})

	assert.Empty(t, lookup)
}

func TestEnrich_AppliesTireLookup(t *testing.T) {
	roster := report.Aggregate([]report.ParticipationRecord{
		groupRow("John", "Doe", "Saturday Time Trials", "Time Trials"),
		groupRow("Jane", "Smith", "Saturday Time Trials", "Time Trials"),
	})

	roster.Enrich(nil, []report.AssignmentRecord{
		{FirstName: "john", LastName: "DOE", Group: "Time Trials - Sport 1", TireBrand: "Hoosier"},
	})

	assert.Equal(t, "Hoosier", mustGet(t, roster, "John", "Doe").TireBrand)
	assert.Empty(t, mustGet(t, roster, "Jane", "Smith").TireBrand)
}

func TestBuildAttendeeLookup_SkipsBlankNames(t *testing.T) {
	lookup := report.BuildAttendeeLookup([]report.AttendeeRecord{
		{FirstName: " ", LastName: "", Email: "nobody@example.com"},
		{FirstName: "Jane", LastName: "Smith", Email: "old@example.com"},
		{FirstName: "Jane", LastName: "Smith", Email: "new@example.com"},
	})

	assert.Len(t, lookup, 1)
	assert.Equal(t, "new@example.com", lookup[report.NewIdentityKey("Jane", "Smith")].Email)
}
