package repo

import (
	"context"

	"gorm.io/gorm"

	"MedMonitor/internal/model"
)

// AlertRepository — доступ к алертам пользователя.
type AlertRepository interface {
	Create(ctx context.Context, a *model.Alert) error
	// Recent возвращает последние limit алертов, свежие первыми.
	Recent(ctx context.Context, userID int64, limit int) ([]model.Alert, error)
	Acknowledge(ctx context.Context, userID int64, id string) (int64, error)
}

type alertRepo struct {
	db *gorm.DB
}

// NewAlertRepository создаёт gorm-реализацию репозитория алертов.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) Create(ctx context.Context, a *model.Alert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertRepo) Recent(ctx context.Context, userID int64, limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []model.Alert
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *alertRepo) Acknowledge(ctx context.Context, userID int64, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Alert{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("acknowledged", true)
	return res.RowsAffected, res.Error
}
