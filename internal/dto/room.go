package dto

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	RoomName string `json:"room_name" validate:"required,max=64"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// UpdateRoomRequest replaces a room's name and capacity.
type UpdateRoomRequest struct {
	RoomName string `json:"room_name" validate:"required,max=64"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}
