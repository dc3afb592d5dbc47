package dto

// CreateLectureRequest captures a weekly lecture. Time is a numeric slot key such as "9" or "10.5".
type CreateLectureRequest struct {
	Department   string `json:"department" validate:"required"`
	Level        string `json:"level" validate:"required"`
	GroupName    string `json:"group_name" validate:"required"`
	SubjectName  string `json:"subject_name" validate:"required"`
	StudentCount int    `json:"student_count" validate:"min=0"`
	Mode         string `json:"mode" validate:"required"`
	Day          string `json:"day" validate:"required"`
	Time         string `json:"time" validate:"required"`
}

// UpdateLectureRequest replaces every lecture field.
type UpdateLectureRequest struct {
	Department   string `json:"department" validate:"required"`
	Level        string `json:"level" validate:"required"`
	GroupName    string `json:"group_name" validate:"required"`
	SubjectName  string `json:"subject_name" validate:"required"`
	StudentCount int    `json:"student_count" validate:"min=0"`
	Mode         string `json:"mode" validate:"required"`
	Day          string `json:"day" validate:"required"`
	Time         string `json:"time" validate:"required"`
}
