package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"MedMonitor/internal/model"
)

// VitalsRepository — доступ к измерениям показателей.
type VitalsRepository interface {
	// Insert сохраняет измерение.
	Insert(ctx context.Context, v *model.VitalSign) error

	// Latest возвращает последнее измерение пользователя или gorm.ErrRecordNotFound.
	Latest(ctx context.Context, userID int64) (*model.VitalSign, error)

	// History возвращает измерения пользователя за окно [since, now] по возрастанию времени.
	History(ctx context.Context, userID int64, since time.Time) ([]model.VitalSign, error)
}

type vitalsRepo struct {
	db *gorm.DB
}

// NewVitalsRepository создаёт gorm-реализацию репозитория показателей.
func NewVitalsRepository(db *gorm.DB) VitalsRepository {
	return &vitalsRepo{db: db}
}

func (r *vitalsRepo) Insert(ctx context.Context, v *model.VitalSign) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vitalsRepo) Latest(ctx context.Context, userID int64) (*model.VitalSign, error) {
	var v model.VitalSign
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vitalsRepo) History(ctx context.Context, userID int64, since time.Time) ([]model.VitalSign, error) {
	var out []model.VitalSign
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Order("recorded_at ASC").
		Find(&out).Error
	return out, err
}
