package model

import "github.com/google/uuid"

// Shift is one scheduled work interval on a calendar day.
//
// Date is a local date key (YYYY-MM-DD). Start and End are HH:MM wall-clock
// times; an End at or before Start means the shift crosses midnight.
type Shift struct {
	ID        string `json:"id"`
	JobID     string `json:"jobId"`
	Date      string `json:"dateStr"`
	Start     string `json:"startTime"`
	End       string `json:"endTime"`
	Note      string `json:"note,omitempty"`
	DoublePay bool   `json:"isDoublePay,omitempty"`
}

// ClipboardShift is a shift without its date, kept for copy and paste.
// JobID records where it was copied from; paste ignores it.
type ClipboardShift struct {
	Start     string `json:"startTime"`
	End       string `json:"endTime"`
	Note      string `json:"note,omitempty"`
	DoublePay bool   `json:"isDoublePay,omitempty"`
	JobID     string `json:"jobId"`
}

// NewID returns a fresh random identifier for a job or shift.
func NewID() string {
	return uuid.NewString()
}
