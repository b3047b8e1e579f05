package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	Name        string    `gorm:"column:name;size:255;not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text"`
	Image       string    `gorm:"column:image;size:512"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) Room {
	return Room{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&roomModel{})
}

func (r *RoomRepository) GetAll(ctx context.Context) ([]Room, error) {
	var rows []roomModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, len(rows))
	for _, m := range rows {
		rooms = append(rooms, toDomainRoom(m))
	}
	return rooms, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	room := toDomainRoom(m)
	return &room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *Room) error {
	m := roomModel{
		ID:          room.ID,
		Name:        room.Name,
		Description: room.Description,
		Image:       room.Image,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	room.CreatedAt = m.CreatedAt
	room.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&roomModel{}).Count(&n).Error
	return n, err
}
