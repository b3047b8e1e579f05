package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type roomStore interface {
	GetAll(ctx context.Context) ([]Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	Create(ctx context.Context, room *Room) error
	Count(ctx context.Context) (int64, error)
}

type Service struct {
	rooms roomStore
}

func NewService(rooms roomStore) *Service {
	return &Service{rooms: rooms}
}

func (s *Service) List(ctx context.Context) ([]Room, error) {
	return s.rooms.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// Seed inserts rooms when the catalog is empty and reports how many it added.
func (s *Service) Seed(ctx context.Context, rooms []Room) (int, error) {
	n, err := s.rooms.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logrus.WithField("existing", n).Info("rooms already seeded")
		return 0, nil
	}

	for i := range rooms {
		room := rooms[i]
		if room.ID == "" {
			room.ID = uuid.NewString()
		}
		if strings.TrimSpace(room.Image) == "" {
			room.Image = DefaultImage
		}
		if err := s.rooms.Create(ctx, &room); err != nil {
			return i, err
		}
	}
	return len(rooms), nil
}
