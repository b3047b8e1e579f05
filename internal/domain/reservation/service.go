package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roombooking/internal/events"
	"roombooking/internal/lock"
	"roombooking/internal/pkg/timerange"
	"roombooking/internal/pkg/validator"
)

type Service struct {
	store   Store
	dir     Directory
	checker *Checker
	locker  Locker
	events  EventPublisher

	now   func() time.Time
	newID func() string
}

// NewService wires the lifecycle manager. A nil locker or publisher falls
// back to a no-op.
func NewService(store Store, dir Directory, locker Locker, pub EventPublisher) *Service {
	if locker == nil {
		locker = lock.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:   store,
		dir:     dir,
		checker: NewChecker(store),
		locker:  locker,
		events:  pub,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns midnight
// UTC of the calendar day written in the input.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*View, error) {
	in.RoomID = strings.TrimSpace(in.RoomID)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)

	if errs := validator.Validate(in); errs != nil {
		return nil, &MissingFieldError{Fields: validator.Fields(errs)}
	}

	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	window, err := timerange.ParseWindow(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if !window.Valid() {
		return nil, ErrInvalidRange
	}

	rooms, err := s.dir.Rooms(ctx, []string{in.RoomID})
	if err != nil {
		return nil, storeErr("resolve room", err)
	}
	room, ok := rooms[in.RoomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	res, err := s.reserve(ctx, userID, in, date)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ReservationCreated, *res, userID)

	v := newView(*res)
	v.Room = &room
	return &v, nil
}

// reserve runs the conflict check and insert under the room-day lock. The
// lock is released before the caller publishes anything.
func (s *Service) reserve(ctx context.Context, userID string, in CreateInput, date time.Time) (*Reservation, error) {
	unlock, err := s.locker.Lock(ctx, lock.Key(in.RoomID, date))
	if err != nil {
		return nil, storeErr("acquire lock", err)
	}
	defer unlock()

	conflict, err := s.checker.Check(ctx, in.RoomID, date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, storeErr("check conflicts", err)
	}
	if conflict != nil {
		logrus.WithFields(logrus.Fields{
			"room_id":        in.RoomID,
			"date":           date.Format(DateLayout),
			"requested":      in.StartTime + "-" + in.EndTime,
			"conflicting_id": conflict.Reservation.ID,
		}).Info("reservation rejected: room unavailable")
		return nil, &UnavailableError{Conflict: *conflict}
	}

	now := s.now().UTC()
	res := &Reservation{
		ID:        s.newID(),
		UserID:    userID,
		RoomID:    in.RoomID,
		Date:      date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, res); err != nil {
		return nil, storeErr("insert reservation", err)
	}
	return res, nil
}

// ListMine returns the caller's reservations with room details, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]View, error) {
	rs, err := s.store.Find(ctx, Filter{UserID: userID})
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return s.project(ctx, rs, projectRoom)
}

// ListAll returns every reservation with user and room details, newest first.
func (s *Service) ListAll(ctx context.Context) ([]View, error) {
	rs, err := s.store.Find(ctx, Filter{})
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return s.project(ctx, rs, projectBoth)
}

func (s *Service) GetByID(ctx context.Context, id string) (*View, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get reservation", err)
	}
	vs, err := s.project(ctx, []Reservation{*r}, projectBoth)
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

// UpdateStatus sets the status of any reservation. Already decided
// reservations may be decided again.
func (s *Service) UpdateStatus(ctx context.Context, actorID, id, status string) (*View, error) {
	st := Status(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}

	r, err := s.store.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("update status", err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"status":         string(st),
		"actor_id":       actorID,
	}).Info("reservation status updated")
	s.publish(ctx, events.ReservationStatusChanged, *r, actorID)

	vs, err := s.project(ctx, []Reservation{*r}, projectBoth)
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

// Cancel deletes a reservation owned by userID, whatever its status.
func (s *Service) Cancel(ctx context.Context, userID, id string) error {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return storeErr("get reservation", err)
	}
	if r.UserID != userID {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return storeErr("delete reservation", err)
	}

	s.publish(ctx, events.ReservationCancelled, *r, userID)
	return nil
}

func (s *Service) project(ctx context.Context, rs []Reservation, p Projection) ([]View, error) {
	out := make([]View, 0, len(rs))
	if len(rs) == 0 {
		return out, nil
	}

	var users map[string]UserSummary
	var rooms map[string]RoomSummary
	var err error

	if p.User {
		users, err = s.dir.Users(ctx, uniq(rs, func(r Reservation) string { return r.UserID }))
		if err != nil {
			return nil, storeErr("resolve users", err)
		}
	}
	if p.Room {
		rooms, err = s.dir.Rooms(ctx, uniq(rs, func(r Reservation) string { return r.RoomID }))
		if err != nil {
			return nil, storeErr("resolve rooms", err)
		}
	}

	for _, r := range rs {
		v := newView(r)
		if u, ok := users[r.UserID]; ok {
			v.User = &u
		}
		if rm, ok := rooms[r.RoomID]; ok {
			v.Room = &rm
		}
		out = append(out, v)
	}
	return out, nil
}

func uniq(rs []Reservation, key func(Reservation) string) []string {
	seen := make(map[string]struct{}, len(rs))
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// publish is best effort: a broker failure never fails the request.
func (s *Service) publish(ctx context.Context, typ events.Type, r Reservation, actorID string) {
	ev := events.Event{
		Type:          typ,
		ReservationID: r.ID,
		UserID:        r.UserID,
		RoomID:        r.RoomID,
		Date:          r.DateString(),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		ActorID:       actorID,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":          string(typ),
			"reservation_id": r.ID,
		}).Warn("failed to publish reservation event")
	}
}
