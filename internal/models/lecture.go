package models

import "time"

// LectureMode is the delivery mode stored with a lecture.
type LectureMode string

const (
	LectureModeFTF LectureMode = "FTF"
	LectureModeVCR LectureMode = "VCR"
)

// Lecture is a weekly lecture waiting to be placed into a room.
type Lecture struct {
	ID           string      `db:"id" json:"id"`
	Department   string      `db:"department" json:"department"`
	Level        string      `db:"level" json:"level"`
	GroupName    string      `db:"group_name" json:"group_name"`
	SubjectName  string      `db:"subject_name" json:"subject_name"`
	StudentCount int         `db:"student_count" json:"student_count"`
	Mode         LectureMode `db:"mode" json:"mode"`
	Day          string      `db:"day" json:"day"`
	Time         string      `db:"time" json:"time"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// LectureFilter describes query params for listing lectures.
type LectureFilter struct {
	Department string
	Level      string
	Day        string
	Mode       string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
