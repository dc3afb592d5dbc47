package scheduler

import "container/heap"

// capacityIndex orders rooms by ascending capacity, then by name.
type capacityIndex []*Room

func (h capacityIndex) Len() int { return len(h) }

func (h capacityIndex) Less(i, j int) bool {
	if h[i].Capacity != h[j].Capacity {
		return h[i].Capacity < h[j].Capacity
	}
	return h[i].Name < h[j].Name
}

func (h capacityIndex) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *capacityIndex) Push(x any) { *h = append(*h, x.(*Room)) }

func (h *capacityIndex) Pop() any {
	old := *h
	n := len(old)
	room := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return room
}

// newCapacityIndex is rebuilt for every placement so bookings made earlier in the
// run are always visible.
func newCapacityIndex(rooms []*Room) *capacityIndex {
	h := make(capacityIndex, len(rooms))
	copy(h, rooms)
	heap.Init(&h)
	return &h
}

func (h *capacityIndex) next() (*Room, bool) {
	if h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(h).(*Room), true
}
