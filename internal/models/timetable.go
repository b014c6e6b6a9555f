package models

import (
	"bytes"
	"encoding/json"
)

// Day is a weekday label of the timetable grid.
type Day string

const (
	DayMonday    Day = "Mon"
	DayTuesday   Day = "Tue"
	DayWednesday Day = "Wed"
	DayThursday  Day = "Thurs"
	DayFriday    Day = "Fri"
)

// Days lists the timetable weekdays in order.
var Days = [DayCount]Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday}

// TimeSlots lists the clock range of each daily period in order.
var TimeSlots = [SlotCount]string{
	"8:30-9:20",
	"9:20-10:10",
	"10:10-11:00",
	"11:00-11:50",
	"11:50-12:40",
	"12:40-1:30",
	"1:30-2:20",
	"2:20-3:10",
	"3:10-4:00",
}

const (
	DayCount  = 5
	SlotCount = 9

	// BreakSlot and LunchSlot are reserved on every day.
	BreakSlot = 2
	LunchSlot = 5
)

// CellKind distinguishes the contents of a grid cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellBreak
	CellLunch
	CellSession
)

// Session is a subject occupying a grid cell.
type Session struct {
	SubjectName string `json:"subject"`
	Faculty     string `json:"faculty"`
	Code        string `json:"code"`
	Section     string `json:"section"`
	Room        string `json:"room"`
}

// Cell is one (day, period) entry of the timetable grid.
type Cell struct {
	Kind    CellKind
	Session Session
}

// SessionCell wraps a session into a grid cell.
func SessionCell(s Session) Cell {
	return Cell{Kind: CellSession, Session: s}
}

// IsEmpty reports whether nothing is scheduled in the cell.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// IsReserved reports whether the cell is a break or lunch marker.
func (c Cell) IsReserved() bool { return c.Kind == CellBreak || c.Kind == CellLunch }

// HasSession reports whether a subject occupies the cell.
func (c Cell) HasSession() bool { return c.Kind == CellSession }

// Label returns the display name of the cell contents.
func (c Cell) Label() string {
	switch c.Kind {
	case CellBreak:
		return "Break"
	case CellLunch:
		return "LUNCH"
	case CellSession:
		return c.Session.SubjectName
	default:
		return ""
	}
}

type reservedCellJSON struct {
	Subject string `json:"subject"`
	Faculty string `json:"faculty"`
	Code    string `json:"code"`
	Room    string `json:"room"`
}

// MarshalJSON renders empty cells as null and reserved cells as marker objects.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellSession:
		return json.Marshal(c.Session)
	case CellBreak, CellLunch:
		return json.Marshal(reservedCellJSON{Subject: c.Label(), Faculty: "-", Code: "-", Room: "-"})
	default:
		return []byte("null"), nil
	}
}

// Schedule is the weekly grid indexed by day then period.
type Schedule [DayCount][SlotCount]Cell

// Cell returns the cell at the given day and period index.
func (s *Schedule) Cell(day, slot int) Cell {
	return s[day][slot]
}

// Set stores a cell at the given day and period index.
func (s *Schedule) Set(day, slot int, cell Cell) {
	s[day][slot] = cell
}

// MarshalJSON renders the grid as an object keyed by day label in weekday order.
func (s Schedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(day))
		if err != nil {
			return nil, err
		}
		row, err := json.Marshal(s[i][:])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(row)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Timetable is a generated weekly grid together with the subject summary.
type Timetable struct {
	Schedule Schedule         `json:"schedule"`
	Subjects []SubjectSummary `json:"subjects"`
}

// SubjectShortfall describes a subject that could not receive all its hours.
type SubjectShortfall struct {
	SubjectSummary
	Required int `json:"required"`
	Assigned int `json:"assigned"`
}

// BuildStats summarises how much of the requested workload was placed.
type BuildStats struct {
	Subjects       int                `json:"subjects"`
	RequiredHours  int                `json:"requiredHours"`
	AssignedHours  int                `json:"assignedHours"`
	UnderScheduled []SubjectShortfall `json:"underScheduled"`
}
