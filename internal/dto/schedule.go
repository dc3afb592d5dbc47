package dto

// ScheduleRunAccepted is returned when a run was queued instead of executed inline.
type ScheduleRunAccepted struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// ClearScheduleResponse reports how many bookings were removed.
type ClearScheduleResponse struct {
	Deleted int64 `json:"deleted"`
}

// ExportScheduleQuery selects the export rendering.
type ExportScheduleQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
