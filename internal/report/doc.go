// Package report reconciles the entry list, attendee roster and assignment
// feed of one event into the Time Trials participation report.
//
// The package is a pure in-memory transform: rows go in, ordered report rows
// come out. It performs no I/O and never fails on malformed row data; every
// rule degrades to a default value instead. Callers must hand rows over in
// their original retrieval order, because vehicle fields and tire brands
// follow last-write-wins semantics.
package report
