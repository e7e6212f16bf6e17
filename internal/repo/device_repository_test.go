package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"MedMonitor/internal/model"
)

func TestDeviceRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	r := NewDeviceRepository(db)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, &model.User{Email: "dev@example.com", PasswordHash: "hash"})
	assert.NoError(t, err)

	d := &model.Device{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		Name:       "Pulse Oximeter",
		DeviceType: "pulse_oximeter",
		Status:     "active",
	}
	assert.NoError(t, r.Create(ctx, d))

	list, err := r.ListByUser(ctx, u.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	// смена статуса обновляет и last_seen
	seen := time.Now().UTC()
	n, err := r.UpdateStatus(ctx, u.ID, d.ID, "inactive", seen)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := r.GetByID(ctx, u.ID, d.ID)
	assert.NoError(t, err)
	assert.Equal(t, "inactive", got.Status)
	assert.NotNil(t, got.LastSeen)

	// чужой пользователь устройство не видит и не удаляет
	n, err = r.Delete(ctx, u.ID+1, d.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = r.Delete(ctx, u.ID, d.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
