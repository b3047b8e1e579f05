package reservation

import (
	"context"
	"time"

	"roombooking/internal/events"
)

// Filter selects reservations. Zero-valued fields are not applied.
// From and To are inclusive bounds on Date.
type Filter struct {
	UserID          string
	RoomID          string
	From            time.Time
	To              time.Time
	ExcludeStatuses []Status
}

// Store is the persistence side of reservations. Lists come back ordered by
// date, newest first. FindByID and UpdateStatus return ErrNotFound for
// unknown ids.
type Store interface {
	Find(ctx context.Context, f Filter) ([]Reservation, error)
	FindByID(ctx context.Context, id string) (*Reservation, error)
	Insert(ctx context.Context, r *Reservation) error
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)
	Delete(ctx context.Context, id string) error
}

// Directory resolves display fields for referenced users and rooms.
// Unknown ids are simply absent from the returned maps.
type Directory interface {
	Users(ctx context.Context, ids []string) (map[string]UserSummary, error)
	Rooms(ctx context.Context, ids []string) (map[string]RoomSummary, error)
}

// Locker serializes work on a key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}
