package models

import "time"

// ScheduleRunStatus tracks a scheduling run through its lifecycle.
type ScheduleRunStatus string

const (
	ScheduleRunQueued    ScheduleRunStatus = "QUEUED"
	ScheduleRunCompleted ScheduleRunStatus = "COMPLETED"
	ScheduleRunPartial   ScheduleRunStatus = "PARTIAL"
	ScheduleRunFailed    ScheduleRunStatus = "FAILED"
)

// ScheduleRun summarises one execution of the room-assignment engine.
type ScheduleRun struct {
	ID                    string                 `json:"id"`
	Status                ScheduleRunStatus      `json:"status"`
	Strategy              string                 `json:"strategy"`
	RoomCount             int                    `json:"room_count"`
	LectureCount          int                    `json:"lecture_count"`
	AssignedCount         int                    `json:"assigned_count"`
	UnassignedCount       int                    `json:"unassigned_count"`
	CombinationPlacements int                    `json:"combination_placements"`
	Assignments           []LectureScheduleEntry `json:"assignments"`
	Unassigned            []Lecture              `json:"unassigned"`
	Error                 string                 `json:"error,omitempty"`
	RequestedAt           time.Time              `json:"requested_at"`
	CompletedAt           *time.Time             `json:"completed_at,omitempty"`
	DurationMs            float64                `json:"duration_ms"`
}
