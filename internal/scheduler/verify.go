package scheduler

import "fmt"

type bookingKey struct {
	Room string
	Day  string
	Time string
}

// Verify checks that no (room, day, time) is claimed by two assignments and that
// every assignment is recorded in its room's schedule.
func Verify(catalog *Catalog, assignments []Assignment) error {
	if catalog == nil {
		return ErrNilCatalog
	}
	seen := make(map[bookingKey]string, len(assignments))
	for _, a := range assignments {
		key := bookingKey{Room: a.Room, Day: a.Day, Time: a.Time}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: room %s double-booked at %s %s by %s and %s", ErrInvariantViolation, a.Room, a.Day, a.Time, prev, a.LectureID)
		}
		seen[key] = a.LectureID

		room, ok := catalog.Room(a.Room)
		if !ok {
			return fmt.Errorf("%w: assignment references unknown room %s", ErrInvariantViolation, a.Room)
		}
		if _, booked := room.Occupant(a.Day, a.Time); !booked {
			return fmt.Errorf("%w: room %s has no booking at %s %s", ErrInvariantViolation, a.Room, a.Day, a.Time)
		}
	}
	return nil
}
