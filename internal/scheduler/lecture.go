package scheduler

import (
	"fmt"
	"strings"
)

// Mode is the delivery mode of a lecture.
type Mode string

const (
	// ModeFTF is face-to-face delivery; the room must hold every attendee.
	ModeFTF Mode = "FTF"
	// ModeVCR is virtual delivery; only time availability matters.
	ModeVCR Mode = "VCR"
)

// ParseMode normalises a mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(raw))) {
	case ModeFTF:
		return ModeFTF, nil
	case ModeVCR:
		return ModeVCR, nil
	}
	return "", fmt.Errorf("unknown delivery mode %q", raw)
}

// Lecture is one weekly lecture to be placed.
type Lecture struct {
	ID           string
	Department   string
	Level        string
	Subject      string
	Group        string
	RawAttendees int
	Mode         Mode
	Day          string
	Time         string
}

// Attendees is the number of seats the lecture needs: half the roster attends
// physically at a time, with at least one attendee.
func (l Lecture) Attendees() int {
	return max(1, l.RawAttendees/2)
}

// Label is the occupant text written into a room's schedule.
func (l Lecture) Label() string {
	return fmt.Sprintf("%s %s %s (%s)", l.Department, l.Level, l.Group, l.Subject)
}

// Assignment is one (lecture, room) pair of the produced schedule.
type Assignment struct {
	LectureID  string
	Department string
	Level      string
	Subject    string
	Group      string
	Time       string
	Mode       Mode
	Room       string
	Day        string
}

func newAssignment(l Lecture, room string) Assignment {
	return Assignment{
		LectureID:  l.ID,
		Department: l.Department,
		Level:      l.Level,
		Subject:    l.Subject,
		Group:      l.Group,
		Time:       l.Time,
		Mode:       l.Mode,
		Room:       room,
		Day:        l.Day,
	}
}
