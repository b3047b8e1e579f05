package reservation

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Reservation is a request for one room on one calendar day.
// Date always holds midnight UTC of that day.
type Reservation struct {
	ID        string
	UserID    string
	RoomID    string
	Date      time.Time
	StartTime string
	EndTime   string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateString formats the calendar day as YYYY-MM-DD.
func (r Reservation) DateString() string {
	return r.Date.Format(DateLayout)
}

const DateLayout = "2006-01-02"

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// View is a reservation with display fields resolved from its references.
// User and Room stay nil when the projection does not include them or the
// referenced record no longer exists.
type View struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	User      *UserSummary `json:"user,omitempty"`
	RoomID    string       `json:"roomId"`
	Room      *RoomSummary `json:"room,omitempty"`
	Date      string       `json:"date"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func newView(r Reservation) View {
	return View{
		ID:        r.ID,
		UserID:    r.UserID,
		RoomID:    r.RoomID,
		Date:      r.DateString(),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ConflictDetail is what callers see about the reservation blocking a request.
type ConflictDetail struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Conflict wraps the existing reservation that overlaps a candidate window.
type Conflict struct {
	Reservation Reservation
}

func (c Conflict) Detail() ConflictDetail {
	return ConflictDetail{
		Date:      c.Reservation.DateString(),
		StartTime: c.Reservation.StartTime,
		EndTime:   c.Reservation.EndTime,
	}
}
