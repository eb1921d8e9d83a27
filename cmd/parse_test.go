package cmd

import (
	"testing"
	"time"

	"github.com/Tiliavir/shiftsync/internal/model"
)

func TestParseMonth(t *testing.T) {
	now := time.Date(2024, time.June, 17, 15, 4, 0, 0, time.Local)

	got, err := parseMonth("", now)
	if err != nil {
		t.Fatalf("parseMonth(\"\"): %v", err)
	}
	if want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local); !got.Equal(want) {
		t.Errorf("parseMonth(\"\") = %v, want %v", got, want)
	}

	got, err = parseMonth("2025-02", now)
	if err != nil {
		t.Fatalf("parseMonth: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.February || got.Day() != 1 {
		t.Errorf("parseMonth(2025-02) = %v", got)
	}

	for _, bad := range []string{"2025-13", "2025/02", "Feb", "2025-2-1"} {
		if _, err := parseMonth(bad, now); err == nil {
			t.Errorf("parseMonth(%q) expected error", bad)
		}
	}
}

func TestParseYear(t *testing.T) {
	now := time.Date(2024, time.June, 17, 0, 0, 0, 0, time.Local)
	got, err := parseYear("", now)
	if err != nil || got.Year() != 2024 {
		t.Errorf("parseYear(\"\") = %v, %v", got, err)
	}
	got, err = parseYear("2023", now)
	if err != nil || got.Year() != 2023 || got.Month() != time.January {
		t.Errorf("parseYear(2023) = %v, %v", got, err)
	}
	if _, err := parseYear("twenty", now); err == nil {
		t.Error("parseYear(twenty) expected error")
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, time.June, 30, 22, 0, 0, 0, time.Local)
	tests := []struct {
		input string
		want  string
	}{
		{"2024-06-05", "2024-06-05"},
		{"today", "2024-06-30"},
		{"Tomorrow", "2024-07-01"},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.input, now)
		if err != nil {
			t.Errorf("parseDate(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	for _, bad := range []string{"2024-02-30", "06/05/2024", "5", ""} {
		if _, err := parseDate(bad, now); err == nil {
			t.Errorf("parseDate(%q) expected error", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"09:00", "09:00"},
		{"9:5", "09:05"},
		{"0930", "09:30"},
		{"18", "18:00"},
		{"7", "07:00"},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.input)
		if err != nil {
			t.Errorf("parseClock(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseClock(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	for _, bad := range []string{"", "25:00", "12:60", "noon", "123", "ab:cd"} {
		if _, err := parseClock(bad); err == nil {
			t.Errorf("parseClock(%q) expected error", bad)
		}
	}
}

func TestResolveJob(t *testing.T) {
	jobs := []model.Job{
		{ID: "job-a", Name: "Cafe"},
		{ID: "job-b", Name: "Bookshop"},
	}
	tests := []struct {
		ref  string
		want string
	}{
		{"", "job-a"},
		{"job-b", "job-b"},
		{"bookshop", "job-b"},
		{"2", "job-b"},
	}
	for _, tt := range tests {
		got, err := resolveJob(jobs, tt.ref)
		if err != nil {
			t.Errorf("resolveJob(%q): %v", tt.ref, err)
			continue
		}
		if got.ID != tt.want {
			t.Errorf("resolveJob(%q) = %s, want %s", tt.ref, got.ID, tt.want)
		}
	}
	for _, bad := range []string{"3", "0", "bakery"} {
		if _, err := resolveJob(jobs, bad); err == nil {
			t.Errorf("resolveJob(%q) expected error", bad)
		}
	}
	if _, err := resolveJob(nil, ""); err == nil {
		t.Error("resolveJob with no jobs expected error")
	}
}

func TestFormatPay(t *testing.T) {
	tests := []struct {
		pay  model.Pay
		want string
	}{
		{model.Hourly{PerHour: 183}, "183/h"},
		{model.Hourly{PerHour: 12.5}, "12.5/h"},
		{model.PerShift{Flat: 1200}, "1200/shift"},
		{nil, "unpaid"},
	}
	for _, tt := range tests {
		if got := formatPay(tt.pay); got != tt.want {
			t.Errorf("formatPay(%v) = %q, want %q", tt.pay, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{9, "9"},
		{7.5, "7.5"},
		{8.25, "8.25"},
		{1.0 / 3, "0.33"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.hours); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestShiftsInMonth(t *testing.T) {
	shifts := []model.Shift{
		{ID: "1", JobID: "job-a", Date: "2024-06-01"},
		{ID: "2", JobID: "job-b", Date: "2024-06-30"},
		{ID: "3", JobID: "job-a", Date: "2024-07-01"},
		{ID: "4", JobID: "job-a", Date: "garbage"},
	}
	ref := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	if got := shiftsInMonth(shifts, ref, ""); len(got) != 2 {
		t.Errorf("shiftsInMonth = %d shifts, want 2", len(got))
	}
	got := shiftsInMonth(shifts, ref, "job-a")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("shiftsInMonth(job-a) = %v", got)
	}
}
