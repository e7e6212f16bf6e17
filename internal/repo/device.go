package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"MedMonitor/internal/model"
)

// DeviceRepository — доступ к устройствам пользователя.
type DeviceRepository interface {
	Create(ctx context.Context, d *model.Device) error
	ListByUser(ctx context.Context, userID int64) ([]model.Device, error)
	// GetByID возвращает устройство в пределах пользователя (чужие не видны).
	GetByID(ctx context.Context, userID int64, id string) (*model.Device, error)
	Delete(ctx context.Context, userID int64, id string) (int64, error)
	UpdateStatus(ctx context.Context, userID int64, id, status string, seenAt time.Time) (int64, error)
}

type deviceRepo struct {
	db *gorm.DB
}

// NewDeviceRepository создаёт gorm-реализацию репозитория устройств.
func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) Create(ctx context.Context, d *model.Device) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *deviceRepo) ListByUser(ctx context.Context, userID int64) ([]model.Device, error) {
	var out []model.Device
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *deviceRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Device, error) {
	var d model.Device
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deviceRepo) Delete(ctx context.Context, userID int64, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Device{})
	return res.RowsAffected, res.Error
}

func (r *deviceRepo) UpdateStatus(ctx context.Context, userID int64, id, status string, seenAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Device{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]any{"status": status, "last_seen": seenAt})
	return res.RowsAffected, res.Error
}
