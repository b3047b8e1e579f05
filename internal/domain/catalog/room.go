package catalog

import (
	"errors"
	"time"
)

const DefaultImage = "https://via.placeholder.com/400x300?text=Room+Image"

var ErrRoomNotFound = errors.New("room not found")

type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultRooms is the catalog the seeder installs on an empty database.
func DefaultRooms() []Room {
	return []Room{
		{
			Name:        "Main Hall",
			Description: "Large hall for church services and events. Capacity: 200 people.",
			Image:       "https://images.unsplash.com/photo-1519167758481-83f29da8ee31?w=800",
		},
		{
			Name:        "Sunday School Room",
			Description: "Classroom for Sunday school activities. Capacity: 30 children.",
			Image:       "https://images.unsplash.com/photo-1497633762265-9d179a990aa6?w=800",
		},
		{
			Name:        "Prayer Room",
			Description: "Quiet room for prayer and meditation. Capacity: 15 people.",
			Image:       "https://images.unsplash.com/photo-1438032005730-c779502df39b?w=800",
		},
		{
			Name:        "Youth Meeting Room",
			Description: "Room for youth activities and meetings. Capacity: 40 people.",
			Image:       "https://images.unsplash.com/photo-1517457373958-b7bdd4587205?w=800",
		},
		{
			Name:        "Conference Room",
			Description: "Room for meetings and conferences. Capacity: 25 people.",
			Image:       "https://images.unsplash.com/photo-1497366216548-37526070297c?w=800",
		},
		{
			Name:        "Choir Practice Room",
			Description: "Room for choir rehearsals. Capacity: 35 people.",
			Image:       "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800",
		},
	}
}
