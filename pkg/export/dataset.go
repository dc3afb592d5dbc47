package export

// TimetableRow is one room booking as it appears in exported timetables.
type TimetableRow struct {
	Room       string `csv:"Room"`
	Day        string `csv:"Day"`
	Time       string `csv:"Time"`
	Department string `csv:"Department"`
	Level      string `csv:"Level"`
	Subject    string `csv:"Subject"`
	Group      string `csv:"Group"`
	Mode       string `csv:"Mode"`
}

// Headers lists the exported columns in order.
var Headers = []string{"Room", "Day", "Time", "Department", "Level", "Subject", "Group", "Mode"}

func (r TimetableRow) values() []string {
	return []string{r.Room, r.Day, r.Time, r.Department, r.Level, r.Subject, r.Group, r.Mode}
}
