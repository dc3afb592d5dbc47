package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCatalog(t *testing.T, rooms ...*Room) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(rooms...)
	require.NoError(t, err)
	return catalog
}

func ftf(id string, raw int, day, time string) Lecture {
	return Lecture{ID: id, Department: "CS", Level: "L1", Subject: "Algorithms", Group: "G" + id, RawAttendees: raw, Mode: ModeFTF, Day: day, Time: time}
}

func TestLectureAttendees(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 16: 8, 31: 15}
	for raw, want := range cases {
		assert.Equal(t, want, Lecture{RawAttendees: raw}.Attendees(), "raw=%d", raw)
	}
}

func TestLectureLabel(t *testing.T) {
	l := Lecture{Department: "Physics", Level: "2", Group: "B", Subject: "Optics"}
	assert.Equal(t, "Physics 2 B (Optics)", l.Label())
}

func TestRoomAvailableMissingDay(t *testing.T) {
	room := NewRoom("A1", 10)
	assert.True(t, room.Available("Mon", "9"))
	require.NoError(t, room.book("Mon", "9", "x"))
	assert.False(t, room.Available("Mon", "9"))
	assert.True(t, room.Available("Mon", "10"))
	assert.True(t, room.Available("Tue", "9"))
}

func TestRoomBookTwiceIsInvariantViolation(t *testing.T) {
	room := NewRoom("A1", 10)
	require.NoError(t, room.book("Mon", "9", "first"))
	err := room.book("Mon", "9", "second")
	require.ErrorIs(t, err, ErrInvariantViolation)
	label, _ := room.Occupant("Mon", "9")
	assert.Equal(t, "first", label)
}

func TestNewCatalogRejectsInvalidRooms(t *testing.T) {
	_, err := NewCatalog(NewRoom("A", 0))
	assert.ErrorIs(t, err, ErrInvalidRoom)

	_, err = NewCatalog(NewRoom(" ", 4))
	assert.ErrorIs(t, err, ErrInvalidRoom)

	_, err = NewCatalog(NewRoom("A", 4), NewRoom("A", 8))
	assert.ErrorIs(t, err, ErrDuplicateRoom)
}

func TestCatalogCloneIsIndependent(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10))
	require.NoError(t, catalog.Seed("A", "Mon", "9", "seeded"))

	clone := catalog.Clone()
	room, _ := clone.Room("A")
	require.NoError(t, room.book("Mon", "10", "clone only"))

	original, _ := catalog.Room("A")
	assert.True(t, original.Available("Mon", "10"))
	assert.False(t, room.Available("Mon", "9"))
}

func TestCapacityIndexOrder(t *testing.T) {
	index := newCapacityIndex([]*Room{NewRoom("c", 30), NewRoom("b", 10), NewRoom("a", 10), NewRoom("d", 20)})
	var names []string
	for room, ok := index.next(); ok; room, ok = index.next() {
		names = append(names, room.Name)
	}
	assert.Equal(t, []string{"a", "b", "d", "c"}, names)
}

func TestPlaceSmallestFit(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("R30", 30), NewRoom("R10", 10), NewRoom("R20", 20))
	placed, err := New().Place(catalog, ftf("1", 16, "Mon", "9"))
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, "R10", placed[0].Room)

	room, _ := catalog.Room("R10")
	label, ok := room.Occupant("Mon", "9")
	require.True(t, ok)
	assert.Equal(t, "CS L1 G1 (Algorithms)", label)
}

func TestPlaceSkipsBookedRoom(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("R10", 10), NewRoom("R20", 20))
	require.NoError(t, catalog.Seed("R10", "Mon", "9", "busy"))

	placed, err := New().Place(catalog, ftf("1", 10, "Mon", "9"))
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, "R20", placed[0].Room)
}

func TestPlaceVCRIgnoresCapacity(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("Tiny", 2))
	lecture := Lecture{ID: "v", Department: "CS", Level: "L3", Subject: "AI", Group: "A", RawAttendees: 200, Mode: ModeVCR, Day: "Tue", Time: "10"}

	placed, err := New().Place(catalog, lecture)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, "Tiny", placed[0].Room)
	assert.Equal(t, ModeVCR, placed[0].Mode)
}

func TestPlaceVCRNoFreeRoom(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("Tiny", 2))
	require.NoError(t, catalog.Seed("Tiny", "Tue", "10", "busy"))
	lecture := Lecture{ID: "v", RawAttendees: 4, Mode: ModeVCR, Day: "Tue", Time: "10"}

	placed, err := New().Place(catalog, lecture)
	require.NoError(t, err)
	assert.Empty(t, placed)
}

func TestPlaceUnknownModeIsUnassigned(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 50))
	placed, err := New().Place(catalog, Lecture{ID: "x", RawAttendees: 2, Mode: "HYBRID", Day: "Mon", Time: "9"})
	require.NoError(t, err)
	assert.Empty(t, placed)
}

func TestPlaceCombinationFallback(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10), NewRoom("B", 10))
	placed, err := New().Place(catalog, ftf("1", 30, "Mon", "9"))
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, "A", placed[0].Room)
	assert.Equal(t, "B", placed[1].Room)
	assert.Equal(t, placed[0].Time, placed[1].Time)
	for _, name := range []string{"A", "B"} {
		room, _ := catalog.Room(name)
		assert.False(t, room.Available("Mon", "9"))
	}
}

func TestExhaustiveCombinationPrefersSmallestSubsetSize(t *testing.T) {
	rooms := []*Room{NewRoom("A", 5), NewRoom("B", 5), NewRoom("C", 5), NewRoom("D", 12)}
	combo := exhaustiveCombination(rooms, 15, "Mon", "9")
	require.Len(t, combo, 2)
	assert.Equal(t, []string{"A", "D"}, []string{combo[0].Name, combo[1].Name})
}

func TestExhaustiveCombinationSkipsBusyMembers(t *testing.T) {
	rooms := []*Room{NewRoom("A", 10), NewRoom("B", 10), NewRoom("C", 10)}
	require.NoError(t, rooms[0].book("Mon", "9", "busy"))
	combo := exhaustiveCombination(rooms, 15, "Mon", "9")
	require.Len(t, combo, 2)
	assert.Equal(t, []string{"B", "C"}, []string{combo[0].Name, combo[1].Name})
}

func TestExhaustiveCombinationNone(t *testing.T) {
	rooms := []*Room{NewRoom("A", 4), NewRoom("B", 4)}
	assert.Nil(t, exhaustiveCombination(rooms, 9, "Mon", "9"))
}

func TestNextCombinationEnumeratesAllSubsets(t *testing.T) {
	idx := []int{0, 1}
	var seen [][]int
	for {
		seen = append(seen, append([]int(nil), idx...))
		if !nextCombination(idx, 4) {
			break
		}
	}
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, seen)
}

func TestGreedyCombinationLargestFirst(t *testing.T) {
	rooms := []*Room{NewRoom("A", 5), NewRoom("B", 5), NewRoom("C", 5), NewRoom("D", 12)}
	combo := greedyCombination(rooms, 15, "Mon", "9")
	require.Len(t, combo, 2)
	assert.Equal(t, "D", combo[0].Name)
	assert.Nil(t, greedyCombination(rooms, 100, "Mon", "9"))
}

func TestEngineFallsBackToGreedyForLargeCatalogs(t *testing.T) {
	rooms := make([]*Room, 0, 6)
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		rooms = append(rooms, NewRoom(name, 4))
	}
	rooms = append(rooms, NewRoom("G", 9))
	catalog := mustCatalog(t, rooms...)

	engine := New(WithMaxExhaustiveRooms(3))
	placed, err := engine.Place(catalog, ftf("1", 26, "Mon", "9"))
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, "G", placed[0].Room)
}

func TestParseModeAndStrategy(t *testing.T) {
	mode, err := ParseMode(" ftf ")
	require.NoError(t, err)
	assert.Equal(t, ModeFTF, mode)
	_, err = ParseMode("onsite")
	assert.Error(t, err)

	strategy, err := ParseCombinationStrategy("")
	require.NoError(t, err)
	assert.Equal(t, CombinationExhaustive, strategy)
	strategy, err = ParseCombinationStrategy("GREEDY")
	require.NoError(t, err)
	assert.Equal(t, CombinationGreedy, strategy)
	_, err = ParseCombinationStrategy("random")
	assert.Error(t, err)
}

func TestRunUnplaceable(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("Only", 5))
	require.NoError(t, catalog.Seed("Only", "Mon", "9", "booked"))

	result, err := New().Run(catalog, []Lecture{ftf("1", 6, "Mon", "9")})
	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, "1", result.Unassigned[0].ID)
}

func TestRunTerminatesWithUnplaceableLecturesInGroup(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10))
	lectures := []Lecture{ftf("1", 10, "Mon", "9"), ftf("2", 10, "Mon", "9"), ftf("3", 10, "Mon", "9")}

	result, err := New().Run(catalog, lectures)
	require.NoError(t, err)
	assert.Len(t, result.Assignments, 1)
	assert.Len(t, result.Unassigned, 2)
	assert.Equal(t, "1", result.Assignments[0].LectureID)
}

func TestRunSlotIndependence(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10))
	result, err := New().Run(catalog, []Lecture{ftf("1", 10, "Mon", "9"), ftf("2", 10, "Mon", "10")})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "A", result.Assignments[0].Room)
	assert.Equal(t, "A", result.Assignments[1].Room)
	assert.Empty(t, result.Unassigned)
}

func TestRunOrdersSlotsNumerically(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10))
	result, err := New().Run(catalog, []Lecture{ftf("late", 4, "Mon", "10"), ftf("early", 4, "Mon", "9"), ftf("tue", 4, "Tue", "8")})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 3)
	assert.Equal(t, "early", result.Assignments[0].LectureID)
	assert.Equal(t, "late", result.Assignments[1].LectureID)
	assert.Equal(t, "tue", result.Assignments[2].LectureID)
}

func TestRunCountsCombinationPlacements(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10), NewRoom("B", 10))
	result, err := New().Run(catalog, []Lecture{ftf("1", 30, "Mon", "9")})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CombinationPlacements)
	assert.Len(t, result.Assignments, 2)
}

func TestRunRequiresCatalog(t *testing.T) {
	_, err := New().Run(nil, nil)
	assert.ErrorIs(t, err, ErrNilCatalog)
}

func TestVerifyDetectsDoubleBooking(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10))
	require.NoError(t, catalog.Seed("A", "Mon", "9", "x"))
	assignments := []Assignment{
		{LectureID: "1", Room: "A", Day: "Mon", Time: "9"},
		{LectureID: "2", Room: "A", Day: "Mon", Time: "9"},
	}
	assert.ErrorIs(t, Verify(catalog, assignments), ErrInvariantViolation)
}

func TestVerifyDetectsMissingBooking(t *testing.T) {
	catalog := mustCatalog(t, NewRoom("A", 10))
	err := Verify(catalog, []Assignment{{LectureID: "1", Room: "A", Day: "Mon", Time: "9"}})
	assert.ErrorIs(t, err, ErrInvariantViolation)

	err = Verify(catalog, []Assignment{{LectureID: "1", Room: "Z", Day: "Mon", Time: "9"}})
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
