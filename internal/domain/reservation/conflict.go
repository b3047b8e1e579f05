package reservation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"roombooking/internal/pkg/timerange"
)

// DefaultExcluded are the statuses that never block a new request.
var DefaultExcluded = []Status{StatusRejected}

// Checker finds existing reservations that overlap a candidate window.
type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// Check returns the first reservation for room on date whose window overlaps
// [start, end), or nil when the window is free. Reservations whose status is
// in exclude are ignored; with no exclude list DefaultExcluded applies.
func (c *Checker) Check(ctx context.Context, roomID string, date time.Time, start, end string, exclude ...Status) (*Conflict, error) {
	want, err := timerange.ParseWindow(start, end)
	if err != nil {
		return nil, err
	}
	if !want.Valid() {
		return nil, ErrInvalidRange
	}
	if len(exclude) == 0 {
		exclude = DefaultExcluded
	}

	from, to := timerange.DayBounds(date)
	existing, err := c.store.Find(ctx, Filter{
		RoomID:          roomID,
		From:            from,
		To:              to,
		ExcludeStatuses: exclude,
	})
	if err != nil {
		return nil, err
	}

	for _, r := range existing {
		have, err := timerange.ParseWindow(r.StartTime, r.EndTime)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"reservation_id": r.ID,
				"start_time":     r.StartTime,
				"end_time":       r.EndTime,
			}).Warn("skipping stored reservation with unparsable window")
			continue
		}
		if want.Overlaps(have) {
			return &Conflict{Reservation: r}, nil
		}
	}
	return nil, nil
}
