package models

import "time"

// LectureScheduleEntry is one persisted (lecture, room) booking. A lecture split
// across several rooms owns several entries with the same day and time.
type LectureScheduleEntry struct {
	ID          string      `db:"id" json:"id"`
	RunID       string      `db:"run_id" json:"run_id"`
	LectureID   string      `db:"lecture_id" json:"lecture_id"`
	Department  string      `db:"department" json:"department"`
	Level       string      `db:"level" json:"level"`
	SubjectName string      `db:"subject_name" json:"subject_name"`
	GroupName   string      `db:"group_name" json:"group_name"`
	Time        string      `db:"time" json:"time"`
	Mode        LectureMode `db:"mode" json:"mode"`
	RoomName    string      `db:"room_name" json:"room_name"`
	Day         string      `db:"day" json:"day"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// LectureScheduleFilter narrows schedule listings.
type LectureScheduleFilter struct {
	RoomName   string
	Day        string
	Department string
	Page       int
	PageSize   int
}
