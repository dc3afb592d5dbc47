package scheduler

import "fmt"

// Room is a bookable room together with its occupancy for the current run.
type Room struct {
	Name     string
	Capacity int
	// Schedule maps day -> time -> occupant label.
	Schedule map[string]map[string]string
}

// NewRoom returns a room with an empty schedule.
func NewRoom(name string, capacity int) *Room {
	return &Room{Name: name, Capacity: capacity, Schedule: make(map[string]map[string]string)}
}

// Available reports whether the room is free at (day, time). A day that has never
// been booked is free for every time.
func (r *Room) Available(day, time string) bool {
	slots, ok := r.Schedule[day]
	if !ok {
		return true
	}
	_, taken := slots[time]
	return !taken
}

// Occupant returns the label stored at (day, time).
func (r *Room) Occupant(day, time string) (string, bool) {
	label, ok := r.Schedule[day][time]
	return label, ok
}

func (r *Room) book(day, time, label string) error {
	if !r.Available(day, time) {
		return fmt.Errorf("%w: room %s already holds %q at %s %s", ErrInvariantViolation, r.Name, r.Schedule[day][time], day, time)
	}
	if r.Schedule == nil {
		r.Schedule = make(map[string]map[string]string)
	}
	slots, ok := r.Schedule[day]
	if !ok {
		slots = make(map[string]string)
		r.Schedule[day] = slots
	}
	slots[time] = label
	return nil
}

func (r *Room) clone() *Room {
	cp := NewRoom(r.Name, r.Capacity)
	for day, slots := range r.Schedule {
		copied := make(map[string]string, len(slots))
		for time, label := range slots {
			copied[time] = label
		}
		cp.Schedule[day] = copied
	}
	return cp
}
