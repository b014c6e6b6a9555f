package service

import (
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/noah-isme/timetable-api/internal/models"
)

const (
	labRoomPrefix = "CSE LAB "
	labRoomCount  = 5
	theoryRoom    = "LT-16"
	labPairHours  = 2
)

// RoomNumberSource draws lab room numbers. *rand.Rand satisfies it.
type RoomNumberSource interface {
	Intn(n int) int
}

// TimetableBuilder lays subjects onto the weekly grid with a first-fit heuristic.
// A builder holds no grid state; every Build call starts from a fresh grid.
type TimetableBuilder struct {
	rooms RoomNumberSource
}

// NewTimetableBuilder constructs a builder. A nil source falls back to a time-seeded generator.
func NewTimetableBuilder(rooms RoomNumberSource) *TimetableBuilder {
	if rooms == nil {
		rooms = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TimetableBuilder{rooms: rooms}
}

// Build assigns subjects to the grid. Labs are placed first, then heavier loads.
// Subjects that cannot receive all their hours are left partially scheduled and
// reported in the returned stats.
func (b *TimetableBuilder) Build(subjects []models.Subject) (*models.Timetable, models.BuildStats) {
	timetable := &models.Timetable{Subjects: make([]models.SubjectSummary, 0, len(subjects))}
	reserveBreaks(&timetable.Schedule)

	ordered := orderSubjects(subjects)
	stats := models.BuildStats{
		Subjects:       len(ordered),
		UnderScheduled: make([]models.SubjectShortfall, 0),
	}
	for _, subject := range ordered {
		required := subject.RequiredHours()
		var assigned int
		if subject.IsLab {
			assigned = b.placeLab(&timetable.Schedule, subject, required)
		} else {
			assigned = placeTheory(&timetable.Schedule, subject, required)
		}

		stats.RequiredHours += required
		stats.AssignedHours += assigned
		if assigned < required {
			stats.UnderScheduled = append(stats.UnderScheduled, models.SubjectShortfall{
				SubjectSummary: subject.Summary(),
				Required:       required,
				Assigned:       assigned,
			})
		}
		timetable.Subjects = append(timetable.Subjects, subject.Summary())
	}
	return timetable, stats
}

func reserveBreaks(schedule *models.Schedule) {
	for day := range models.Days {
		schedule.Set(day, models.BreakSlot, models.Cell{Kind: models.CellBreak})
		schedule.Set(day, models.LunchSlot, models.Cell{Kind: models.CellLunch})
	}
}

// orderSubjects returns a stably sorted copy: labs first, then descending total load.
func orderSubjects(subjects []models.Subject) []models.Subject {
	ordered := make([]models.Subject, len(subjects))
	copy(ordered, subjects)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].IsLab != ordered[j].IsLab {
			return ordered[i].IsLab
		}
		return ordered[i].TotalLoad > ordered[j].TotalLoad
	})
	return ordered
}

// placeLab occupies pairs of adjacent free periods until the practical hours are
// covered. A pair is only taken while it fits in the remaining hours.
func (b *TimetableBuilder) placeLab(schedule *models.Schedule, subject models.Subject, required int) int {
	assigned := 0
	for day := range models.Days {
		for slot := 0; slot < models.SlotCount-2; slot++ {
			if assigned+labPairHours > required {
				return assigned
			}
			if !slotAvailable(schedule, day, slot, subject.Faculty, subject.Section) ||
				!slotAvailable(schedule, day, slot+1, subject.Faculty, subject.Section) {
				continue
			}
			cell := models.SessionCell(newSession(subject, b.labRoom()))
			schedule.Set(day, slot, cell)
			schedule.Set(day, slot+1, cell)
			assigned += labPairHours
		}
	}
	return assigned
}

func placeTheory(schedule *models.Schedule, subject models.Subject, required int) int {
	assigned := 0
	for day := range models.Days {
		for slot := 0; slot < models.SlotCount; slot++ {
			if assigned >= required {
				return assigned
			}
			if !slotAvailable(schedule, day, slot, subject.Faculty, subject.Section) {
				continue
			}
			schedule.Set(day, slot, models.SessionCell(newSession(subject, theoryRoom)))
			assigned++
		}
	}
	return assigned
}

// slotAvailable reports whether the cell is empty and no day of the week holds a
// session for the same faculty or section at this period index.
func slotAvailable(schedule *models.Schedule, day, slot int, faculty, section string) bool {
	if !schedule.Cell(day, slot).IsEmpty() {
		return false
	}
	for d := range models.Days {
		cell := schedule.Cell(d, slot)
		if !cell.HasSession() {
			continue
		}
		if cell.Session.Faculty == faculty || cell.Session.Section == section {
			return false
		}
	}
	return true
}

func (b *TimetableBuilder) labRoom() string {
	return labRoomPrefix + strconv.Itoa(b.rooms.Intn(labRoomCount)+1)
}

func newSession(subject models.Subject, room string) models.Session {
	return models.Session{
		SubjectName: subject.Name,
		Faculty:     subject.Faculty,
		Code:        subject.Code,
		Section:     subject.Section,
		Room:        room,
	}
}
