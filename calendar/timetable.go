package calendar

import (
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

const (
	timetableTimeZone = "Asia/Kolkata"
	// One semester of weekly repeats.
	semesterRecurrence = "RRULE:FREQ=WEEKLY;COUNT=16"
)

// Timetable is the parsed university timetable as produced by the upload
// backend: one entry per teaching day, each with its class slots.
type Timetable struct {
	Schedule []Day `json:"schedule"`
}

type Day struct {
	// Day is the date of the first occurrence, YYYY-MM-DD.
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

type Slot struct {
	SubjectName string `json:"subject_name"`
	SubjectCode string `json:"subject_code"`
	Faculty     string `json:"faculty"`
	Room        string `json:"room"`
	Type        string `json:"type"`
	StartTime   string `json:"start_time"` // HH:MM
	EndTime     string `json:"end_time"`   // HH:MM
}

// EventsFromTimetable flattens a timetable into calendar events, one weekly
// recurring event per slot.
func EventsFromTimetable(tt Timetable) []*gcal.Event {
	var events []*gcal.Event
	for _, day := range tt.Schedule {
		for _, slot := range day.Slots {
			events = append(events, &gcal.Event{
				Summary:     fmt.Sprintf("%s (%s)", slot.SubjectName, slot.Type),
				Location:    slot.Room,
				Description: fmt.Sprintf("Faculty: %s\nSubject Code: %s", slot.Faculty, slot.SubjectCode),
				Start: &gcal.EventDateTime{
					DateTime: fmt.Sprintf("%sT%s:00", day.Day, slot.StartTime),
					TimeZone: timetableTimeZone,
				},
				End: &gcal.EventDateTime{
					DateTime: fmt.Sprintf("%sT%s:00", day.Day, slot.EndTime),
					TimeZone: timetableTimeZone,
				},
				Recurrence: []string{semesterRecurrence},
			})
		}
	}
	return events
}

// TestEvent is the single demo event written when a sync is triggered
// without a timetable: tomorrow, one hour, one occurrence.
func TestEvent(now time.Time) *gcal.Event {
	return &gcal.Event{
		Summary:     "Test Class: Data Structures",
		Location:    "Room 301",
		Description: "Faculty: John Doe\nSubject Code: CS201",
		Start: &gcal.EventDateTime{
			DateTime: now.Add(24 * time.Hour).Format(time.RFC3339),
			TimeZone: timetableTimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: now.Add(25 * time.Hour).Format(time.RFC3339),
			TimeZone: timetableTimeZone,
		},
		Recurrence: []string{"RRULE:FREQ=WEEKLY;COUNT=1"},
	}
}
