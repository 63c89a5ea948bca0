package dataprocessing

import (
	"time"

	"sheetcheck/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// sampleRecords covers two developers, a leave entry, an undated row and a blank status.
func sampleRecords() []domain.WorkRecord {
	return []domain.WorkRecord{
		{Date: day(2024, time.March, 3), Ticket: "https://t.example.com/#!/101", TicketDisplay: "#101", Task: "Build export", Status: "Done", ProductiveHours: 3, TimeSpentMinutes: 180, Developer: "Ana"},
		{Date: day(2024, time.March, 4), Ticket: "ABC-7", TicketDisplay: "ABC-7", Task: "Build export", Status: "In Progress", ProductiveHours: 1, TimeSpentMinutes: 60, Developer: "Ana"},
		{Date: day(2024, time.March, 5), Ticket: "", TicketDisplay: "", Task: "Annual Leave", Status: "Leave", ProductiveHours: 0, TimeSpentMinutes: 480, Developer: "Ana"},
		{Date: day(2024, time.March, 10), Ticket: "ABC-9", TicketDisplay: "ABC-9", Task: "Code review", Status: "Done", ProductiveHours: 0, TimeSpentMinutes: 30, Developer: "Bo"},
		{Date: nil, Ticket: "ABC-10", TicketDisplay: "ABC-10", Task: "Triage", Status: "", ProductiveHours: 2, TimeSpentMinutes: 120, Developer: "Bo"},
		{Date: day(2024, time.March, 11), Ticket: "ABC-11", TicketDisplay: "ABC-11", Task: "Standup", Status: "Done", ProductiveHours: 0.5, TimeSpentMinutes: 15, Developer: "Ana"},
	}
}
