package reservation

import (
	"errors"
	"fmt"
	"strings"

	"roombooking/internal/pkg/timerange"
)

var (
	ErrMissingField      = errors.New("please provide all fields")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeFormat = timerange.ErrInvalidTimeFormat
	ErrInvalidRange      = errors.New("end time must be after start time")
	ErrRoomUnavailable   = errors.New("this room is not available at this time")
	ErrRoomNotFound      = errors.New("room not found")
	ErrNotFound          = errors.New("reservation not found")
	ErrForbidden         = errors.New("not authorized to cancel this reservation")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrStoreFailure      = errors.New("store failure")
)

// UnavailableError is returned by Create when the requested window overlaps an
// existing reservation. It matches ErrRoomUnavailable with errors.Is.
type UnavailableError struct {
	Conflict Conflict
}

func (e *UnavailableError) Error() string {
	d := e.Conflict.Detail()
	return fmt.Sprintf("%s: blocked by %s %s-%s", ErrRoomUnavailable, d.Date, d.StartTime, d.EndTime)
}

func (e *UnavailableError) Unwrap() error { return ErrRoomUnavailable }

// MissingFieldError names the empty request fields. It matches ErrMissingField.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreFailure, op, err)
}
