package models

// Room metadata is static; rooms are provisioned by the seed data,
// never created or destroyed through the API.
type Room struct {
	Name     string
	Capacity int
}

// RoomView composes a room with its live occupancy. CurrentOccupancy
// counts the places still free: capacity minus open check-ins.
type RoomView struct {
	Name             string `json:"name"`
	Capacity         int    `json:"capacity"`
	CurrentOccupancy int    `json:"currentOccupancy"`
}
