package reservation

// CreateInput is the body of a new reservation request.
type CreateInput struct {
	RoomID    string `json:"room" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}

type Projection struct {
	User bool
	Room bool
}

var (
	projectRoom = Projection{Room: true}
	projectBoth = Projection{User: true, Room: true}
)
