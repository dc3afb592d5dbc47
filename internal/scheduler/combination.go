package scheduler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CombinationStrategy selects the multi-room search used for FTF lectures no
// single room can hold.
type CombinationStrategy string

const (
	// CombinationExhaustive tries every subset of size 2, 3, ... in catalog order
	// and returns the first that fits. Worst case is exponential in the room count.
	CombinationExhaustive CombinationStrategy = "exhaustive"
	// CombinationGreedy accumulates free rooms largest first until the attendees
	// fit. It runs in O(n log n) but may return a different subset than the
	// exhaustive search.
	CombinationGreedy CombinationStrategy = "greedy"
)

// ParseCombinationStrategy validates a strategy name.
func ParseCombinationStrategy(raw string) (CombinationStrategy, error) {
	switch CombinationStrategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", CombinationExhaustive:
		return CombinationExhaustive, nil
	case CombinationGreedy:
		return CombinationGreedy, nil
	}
	return "", fmt.Errorf("unknown combination strategy %q", raw)
}

func (e *Engine) findCombination(rooms []*Room, need int, day, time string) []*Room {
	strategy := e.strategy
	if strategy == CombinationExhaustive && e.maxExhaustiveRooms > 0 && len(rooms) > e.maxExhaustiveRooms {
		e.logger.Warn("room catalog too large for exhaustive combination search, using greedy",
			zap.Int("rooms", len(rooms)),
			zap.Int("limit", e.maxExhaustiveRooms),
		)
		strategy = CombinationGreedy
	}
	if strategy == CombinationGreedy {
		return greedyCombination(rooms, need, day, time)
	}
	return exhaustiveCombination(rooms, need, day, time)
}

func exhaustiveCombination(rooms []*Room, need int, day, time string) []*Room {
	n := len(rooms)
	for r := 2; r <= n; r++ {
		idx := make([]int, r)
		for i := range idx {
			idx[i] = i
		}
		for {
			if subsetFits(rooms, idx, need, day, time) {
				return lo.Map(idx, func(i int, _ int) *Room { return rooms[i] })
			}
			if !nextCombination(idx, n) {
				break
			}
		}
	}
	return nil
}

func subsetFits(rooms []*Room, idx []int, need int, day, time string) bool {
	total := lo.SumBy(idx, func(i int) int { return rooms[i].Capacity })
	if total < need {
		return false
	}
	return lo.EveryBy(idx, func(i int) bool { return rooms[i].Available(day, time) })
}

// nextCombination advances idx to the next r-subset of [0, n) in lexicographic
// order and reports false once the last subset has been passed.
func nextCombination(idx []int, n int) bool {
	r := len(idx)
	i := r - 1
	for i >= 0 && idx[i] == n-r+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < r; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

func greedyCombination(rooms []*Room, need int, day, time string) []*Room {
	free := lo.Filter(rooms, func(r *Room, _ int) bool { return r.Available(day, time) })
	slices.SortStableFunc(free, func(a, b *Room) int { return b.Capacity - a.Capacity })

	var picked []*Room
	total := 0
	for _, room := range free {
		picked = append(picked, room)
		total += room.Capacity
		if total >= need {
			break
		}
	}
	if total < need || len(picked) < 2 {
		return nil
	}
	return picked
}
