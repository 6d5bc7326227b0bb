package report_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hpde-analytics/internal/report"
)

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

func scenarioInput() report.Input {
	return report.Input{
		Entries: []report.ParticipationRecord{
			{
				FirstName: "John", LastName: "Doe",
				Segment: "Saturday Time Trials", Group: "Time Trials - Sport 1",
				Vehicle: report.Vehicle{Class: "Sport 1", Year: "2020", Make: "Honda", Model: "Civic", VehicleNumber: "42"},
			},
			{
				FirstName: "John", LastName: "Doe",
				Segment: "Sunday Time Trials", Group: "Time Trials - Sport 1",
				Vehicle: report.Vehicle{Class: "Sport 1", Color: "Red"},
			},
			{
				FirstName: "Jane", LastName: "Smith",
				Segment: "Saturday Time Trials", Group: "Time Trials - Max 2",
				Vehicle: report.Vehicle{Class: "Max 2", Make: "Porsche", Model: "911", Sponsor: "ACME"},
			},
			{
				FirstName: "Jane", LastName: "Smith",
				Segment: "Saturday Advanced HPDE", Group: "Advanced HPDE",
			},
			{
				FirstName: "Worker", LastName: "Bee",
				Segment: "Saturday Workers", Group: "Time Trials - Sport 1",
			},
			{
				FirstName: "Ian", LastName: "Structor",
				Segment: "Sunday Instructing", Group: "Instructing",
			},
		},
		Attendees: []report.AttendeeRecord{
			{FirstName: "John", LastName: "Doe", Email: "john@example.com", MemberID: "M001", Status: "Confirmed"},
		},
		Assignments: []report.AssignmentRecord{
			{FirstName: "John", LastName: "Doe", Group: "Time Trials - Sport 1", TireBrand: "Hoosier"},
			{FirstName: "Jane", LastName: "Smith", Group: "Advanced HPDE", TireBrand: "Michelin"},
		},
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestBuild_Scenario(t *testing.T) {
	got := report.Build(scenarioInput())

	want := report.Report{
		Count: 2,
		Rows: []report.Row{
			{
				FirstName: "John", LastName: "Doe",
				Email: "john@example.com", MemberID: "M001",
				Class: "Sport 1", ClassGroup: report.ClassFamilySport,
				VehicleNumber: "42", Vehicle: "2020 Honda Civic", Color: "Red",
				Tire:   "Hoosier",
				DaysTT: "Sat/Sun", DayCount: "2 Days",
				Instructor: "No", AYCE: "No",
				ParticipationType: report.TypeTTOnly,
				Status:            "Confirmed",
			},
			{
				FirstName: "Jane", LastName: "Smith",
				Class: "Max 2", ClassGroup: report.ClassFamilyMax,
				Vehicle: "Porsche 911", Sponsor: "ACME",
				DaysTT: "Saturday", DayCount: "1 Day",
				Instructor: "No", AYCE: "Yes",
				ParticipationType: report.TypeAYCE,
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	first := report.Build(scenarioInput())
	second := report.Build(scenarioInput())

	assert.Empty(t, cmp.Diff(first, second), "Same inputs must give identical rows")
}

func TestBuild_EmptyInput(t *testing.T) {
	got := report.Build(report.Input{})

	assert.Equal(t, 0, got.Count)
	assert.Empty(t, got.Rows)
}

func TestAssemble_SortOrder(t *testing.T) {
	roster := report.Aggregate([]report.ParticipationRecord{
		groupRow("bob", "smith", "Saturday Time Trials", "Time Trials"),
		groupRow("Alice", "Smith", "Saturday Time Trials", "Time Trials"),
		groupRow("Zoe", "adams", "Saturday Time Trials", "Time Trials"),
		groupRow("Carl", "Brown", "Saturday Instructing", "Instructing"),
	})

	rep := report.Assemble(roster)
	require.Equal(t, 3, rep.Count)

	var names []string
	for _, r := range rep.Rows {
		names = append(names, r.FirstName+" "+r.LastName)
	}
	assert.Equal(t, []string{"Zoe adams", "Alice Smith", "bob smith"}, names)
}

func TestAssemble_InstructorAYCE(t *testing.T) {
	rep := report.Build(report.Input{Entries: []report.ParticipationRecord{
		groupRow("All", "In", "Friday Time Trials", "Time Trials - Unlimited"),
		groupRow("All", "In", "Saturday Time Trials", "Time Trials - Unlimited"),
		groupRow("All", "In", "Sunday Time Trials", "Time Trials - Unlimited"),
		groupRow("All", "In", "Saturday Instructing", "Instructing"),
		groupRow("All", "In", "Sunday Advanced HPDE", "Advanced HPDE"),
	}})

	require.Len(t, rep.Rows, 1)
	row := rep.Rows[0]
	assert.Equal(t, "All 3", row.DaysTT)
	assert.Equal(t, "3 Days", row.DayCount)
	assert.Equal(t, "Yes", row.Instructor)
	assert.Equal(t, "Yes", row.AYCE)
	assert.Equal(t, report.TypeInstructorAYCE, row.ParticipationType)
}

func TestRow_ValuesMatchColumns(t *testing.T) {
	row := report.Row{FirstName: "F", Status: "S"}
	values := row.Values()

	require.Len(t, values, len(report.Columns))
	assert.Equal(t, "F", values[0])
	assert.Equal(t, "S", values[len(values)-1])

	for _, c := range report.Columns {
		assert.NotEmpty(t, report.DefaultHeaders[c], "column %s needs a header", c)
	}
}
