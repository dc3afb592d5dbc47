package service

import (
	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/internal/scheduler"
)

// BuildCatalog turns stored rooms into a fresh engine catalog with empty schedules.
func BuildCatalog(rooms []models.Room) (*scheduler.Catalog, error) {
	entries := make([]*scheduler.Room, 0, len(rooms))
	for _, room := range rooms {
		entries = append(entries, scheduler.NewRoom(room.Name, room.Capacity))
	}
	return scheduler.NewCatalog(entries...)
}

// EngineLectures converts stored lectures into engine input, preserving order.
func EngineLectures(lectures []models.Lecture) []scheduler.Lecture {
	out := make([]scheduler.Lecture, 0, len(lectures))
	for _, l := range lectures {
		out = append(out, scheduler.Lecture{
			ID:           l.ID,
			Department:   l.Department,
			Level:        l.Level,
			Subject:      l.SubjectName,
			Group:        l.GroupName,
			RawAttendees: l.StudentCount,
			Mode:         scheduler.Mode(l.Mode),
			Day:          l.Day,
			Time:         l.Time,
		})
	}
	return out
}

// ScheduleEntries converts engine assignments into rows for the given run.
func ScheduleEntries(runID string, assignments []scheduler.Assignment) []models.LectureScheduleEntry {
	out := make([]models.LectureScheduleEntry, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, models.LectureScheduleEntry{
			RunID:       runID,
			LectureID:   a.LectureID,
			Department:  a.Department,
			Level:       a.Level,
			SubjectName: a.Subject,
			GroupName:   a.Group,
			Time:        a.Time,
			Mode:        models.LectureMode(a.Mode),
			RoomName:    a.Room,
			Day:         a.Day,
		})
	}
	return out
}

func unassignedLectures(all []models.Lecture, unassigned []scheduler.Lecture) []models.Lecture {
	byID := make(map[string]models.Lecture, len(all))
	for _, l := range all {
		byID[l.ID] = l
	}
	out := make([]models.Lecture, 0, len(unassigned))
	for _, l := range unassigned {
		if stored, ok := byID[l.ID]; ok {
			out = append(out, stored)
		}
	}
	return out
}
