package reservation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type reservationRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Store {
	return &reservationRepository{db: db}
}

type reservationModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	UserID    string    `gorm:"column:user_id;size:36;not null;index"`
	RoomID    string    `gorm:"column:room_id;size:36;not null;index:idx_reservations_room_date,priority:1"`
	Date      time.Time `gorm:"column:date;not null;index:idx_reservations_room_date,priority:2"`
	StartTime string    `gorm:"column:start_time;size:5;not null"`
	EndTime   string    `gorm:"column:end_time;size:5;not null"`
	Status    string    `gorm:"column:status;size:16;not null;default:pending;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *Reservation {
	return &Reservation{
		ID:        m.ID,
		UserID:    m.UserID,
		RoomID:    m.RoomID,
		Date:      m.Date.UTC(),
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Status:    Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toReservationModel(r *Reservation) reservationModel {
	return reservationModel{
		ID:        r.ID,
		UserID:    r.UserID,
		RoomID:    r.RoomID,
		Date:      r.Date.UTC(),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AutoMigrate creates or updates the reservations table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&reservationModel{})
}

func (r *reservationRepository) Find(ctx context.Context, f Filter) ([]Reservation, error) {
	q := r.db.WithContext(ctx).Model(&reservationModel{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.RoomID != "" {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To.UTC())
	}
	if len(f.ExcludeStatuses) > 0 {
		ex := make([]string, 0, len(f.ExcludeStatuses))
		for _, s := range f.ExcludeStatuses {
			ex = append(ex, string(s))
		}
		q = q.Where("status NOT IN ?", ex)
	}

	var rows []reservationModel
	if err := q.Order("date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*Reservation, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainReservation(m), nil
}

func (r *reservationRepository) Insert(ctx context.Context, res *Reservation) error {
	m := toReservationModel(res)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	res.CreatedAt = m.CreatedAt
	res.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	var out *Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m reservationModel
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&m).Update("status", string(status)).Error; err != nil {
			return err
		}
		m.Status = string(status)
		out = toDomainReservation(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reservationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormDirectory struct {
	db *gorm.DB
}

// NewDirectory resolves user and room display fields straight from the
// users and rooms tables.
func NewDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) Users(ctx context.Context, ids []string) (map[string]UserSummary, error) {
	out := make(map[string]UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []UserSummary
	err := d.db.WithContext(ctx).
		Table("users").
		Select("id, name, email").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}

func (d *gormDirectory) Rooms(ctx context.Context, ids []string) (map[string]RoomSummary, error) {
	out := make(map[string]RoomSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []RoomSummary
	err := d.db.WithContext(ctx).
		Table("rooms").
		Select("id, name, description, image").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rm := range rows {
		out[rm.ID] = rm
	}
	return out, nil
}
