package scheduler

import "go.uber.org/zap"

// Place tries to seat one lecture, booking the chosen room(s) into catalog. It
// returns no assignments when the lecture cannot be placed.
func (e *Engine) Place(catalog *Catalog, lecture Lecture) ([]Assignment, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	need := lecture.Attendees()

	switch lecture.Mode {
	case ModeFTF:
		if room := smallestFit(catalog.rooms, lecture, need); room != nil {
			return e.book(lecture, room)
		}
		combo := e.findCombination(catalog.rooms, need, lecture.Day, lecture.Time)
		if combo == nil {
			return nil, nil
		}
		e.logger.Warn("lecture split across rooms",
			zap.String("lecture", lecture.Label()),
			zap.Int("attendees", need),
			zap.Int("rooms", len(combo)),
		)
		return e.book(lecture, combo...)
	case ModeVCR:
		// virtual attendance has no physical limit
		if room := smallestFit(catalog.rooms, lecture, 0); room != nil {
			return e.book(lecture, room)
		}
	}
	return nil, nil
}

// smallestFit pops rooms in ascending capacity and returns the first one that can
// hold need attendees and is free at the lecture's slot.
func smallestFit(rooms []*Room, lecture Lecture, need int) *Room {
	index := newCapacityIndex(rooms)
	for room, ok := index.next(); ok; room, ok = index.next() {
		if room.Capacity >= need && room.Available(lecture.Day, lecture.Time) {
			return room
		}
	}
	return nil
}

func (e *Engine) book(lecture Lecture, rooms ...*Room) ([]Assignment, error) {
	label := lecture.Label()
	out := make([]Assignment, 0, len(rooms))
	for _, room := range rooms {
		if err := room.book(lecture.Day, lecture.Time, label); err != nil {
			return nil, err
		}
		out = append(out, newAssignment(lecture, room.Name))
	}
	e.logger.Debug("lecture placed",
		zap.String("lecture", label),
		zap.String("day", lecture.Day),
		zap.String("time", lecture.Time),
		zap.Int("rooms", len(rooms)),
	)
	return out, nil
}
