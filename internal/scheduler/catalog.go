package scheduler

import (
	"fmt"
	"strings"
)

// Catalog is the caller-owned set of rooms a run books into. Rooms keep the order
// they were added in; combination search enumerates subsets in that order.
//
// A Catalog is not safe for concurrent use. Give every run its own catalog (see
// Clone) and serialise write-back of the resulting schedules.
type Catalog struct {
	rooms  []*Room
	byName map[string]*Room
}

// NewCatalog validates the rooms and builds a catalog over them.
func NewCatalog(rooms ...*Room) (*Catalog, error) {
	c := &Catalog{
		rooms:  make([]*Room, 0, len(rooms)),
		byName: make(map[string]*Room, len(rooms)),
	}
	for _, room := range rooms {
		if err := c.Add(room); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a room to the catalog.
func (c *Catalog) Add(room *Room) error {
	if room == nil || strings.TrimSpace(room.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRoom)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: room %s has capacity %d", ErrInvalidRoom, room.Name, room.Capacity)
	}
	if _, exists := c.byName[room.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoom, room.Name)
	}
	if room.Schedule == nil {
		room.Schedule = make(map[string]map[string]string)
	}
	c.rooms = append(c.rooms, room)
	c.byName[room.Name] = room
	return nil
}

// Rooms returns the rooms in catalog order. The slice is a copy; the rooms are not.
func (c *Catalog) Rooms() []*Room {
	out := make([]*Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// Room looks a room up by name.
func (c *Catalog) Room(name string) (*Room, bool) {
	room, ok := c.byName[name]
	return room, ok
}

// Len returns the number of rooms.
func (c *Catalog) Len() int {
	return len(c.rooms)
}

// Seed records an existing booking before a run starts.
func (c *Catalog) Seed(room, day, time, label string) error {
	r, ok := c.byName[room]
	if !ok {
		return fmt.Errorf("%w: unknown room %s", ErrInvalidRoom, room)
	}
	return r.book(day, time, label)
}

// Clone returns a deep copy so a run can mutate schedules privately.
func (c *Catalog) Clone() *Catalog {
	cp := &Catalog{
		rooms:  make([]*Room, 0, len(c.rooms)),
		byName: make(map[string]*Room, len(c.rooms)),
	}
	for _, room := range c.rooms {
		r := room.clone()
		cp.rooms = append(cp.rooms, r)
		cp.byName[r.Name] = r
	}
	return cp
}
