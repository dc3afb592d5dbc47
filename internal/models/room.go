package models

import "time"

// Room is a registered lecture room.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"room_name" json:"room_name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures supported filters for listing rooms.
type RoomFilter struct {
	Search      string
	MinCapacity int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
