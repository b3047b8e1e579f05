// Package events carries reservation lifecycle notifications to RabbitMQ and
// turns them into audit log lines on the consuming side.
package events

import (
	"context"
	"fmt"
	"time"
)

type Type string

const (
	ReservationCreated       Type = "reservation.created"
	ReservationStatusChanged Type = "reservation.status_changed"
	ReservationCancelled     Type = "reservation.cancelled"
)

type Event struct {
	Type          Type      `json:"type"`
	ReservationID string    `json:"reservationId"`
	UserID        string    `json:"userId"`
	RoomID        string    `json:"roomId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actorId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// FormatAuditLine renders ev as a single newline-terminated log line.
func FormatAuditLine(ev Event) string {
	line := fmt.Sprintf("[%s] %s | reservation_id=%s | user_id=%s | room_id=%s | date=%s | window=%s-%s | status=%s",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ReservationID, ev.UserID, ev.RoomID,
		ev.Date, ev.StartTime, ev.EndTime, ev.Status)
	if ev.ActorID != "" {
		line += " | actor_id=" + ev.ActorID
	}
	return line + "\n"
}
