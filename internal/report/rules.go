package report

import "strings"

// Label fragments recognised in the free-text group and segment labels.
// Every text-matching rule of the report lives in this file.
const (
	labelTimeTrials = "time trials"
	labelInstructor = "instructing"
	labelAdvanced   = "advanced hpde"
	labelWorkers    = "workers"
)

// Class families used for pivot-style grouping.
const (
	ClassFamilyMax       = "Max"
	ClassFamilySport     = "Sport"
	ClassFamilyTuner     = "Tuner"
	ClassFamilyUnlimited = "Unlimited"
	ClassFamilyOther     = "Other"
)

var classPrefixes = []struct {
	prefix string
	family string
}{
	{"max", ClassFamilyMax},
	{"sport", ClassFamilySport},
	{"tuner", ClassFamilyTuner},
	{"unlimited", ClassFamilyUnlimited},
}

func containsFold(label, fragment string) bool {
	if label == "" {
		return false
	}
	return strings.Contains(strings.ToLower(label), fragment)
}

// IsTimeTrials reports whether a group label is a Time Trials registration.
func IsTimeTrials(group string) bool {
	return containsFold(group, labelTimeTrials)
}

// IsInstructor reports whether a group label is an instructing registration.
func IsInstructor(group string) bool {
	return containsFold(group, labelInstructor)
}

// IsAdvancedProgram reports whether a group label is an Advanced HPDE registration.
func IsAdvancedProgram(group string) bool {
	return containsFold(group, labelAdvanced)
}

// IsWorkerOnly reports whether a segment is not an on-track segment.
// An empty segment counts as worker-only.
func IsWorkerOnly(segment string) bool {
	if segment == "" {
		return true
	}
	return containsFold(segment, labelWorkers)
}

// ParseDay extracts the event day from a segment label, checking Friday,
// Saturday and Sunday in that order.
func ParseDay(segment string) (Day, bool) {
	if segment == "" {
		return 0, false
	}
	lower := strings.ToLower(segment)
	for _, d := range allDays {
		if strings.Contains(lower, strings.ToLower(d.String())) {
			return d, true
		}
	}
	return 0, false
}

// ClassFamily buckets a class label ("Max 1", "Sport 3") into its family.
func ClassFamily(class string) string {
	lower := strings.ToLower(strings.TrimSpace(class))
	if lower == "" {
		return ClassFamilyOther
	}
	for _, p := range classPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.family
		}
	}
	return ClassFamilyOther
}
