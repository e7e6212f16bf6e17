package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"MedMonitor/internal/model"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	// успешное создание
	u, err := r.CreateUser(ctx, &model.User{Email: "john@example.com", PasswordHash: "hash", FirstName: "John"})
	assert.NoError(t, err)
	assert.NotZero(t, u.ID)

	// поиск по email — найдено
	got, err := r.GetUserByEmail(ctx, "john@example.com")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// уникальный email — вторая вставка должна дать ошибку
	_, err = r.CreateUser(ctx, &model.User{Email: "john@example.com", PasswordHash: "x"})
	assert.Error(t, err)

	// поиск несуществующего — ожидаем gorm.ErrRecordNotFound
	got, err = r.GetUserByEmail(ctx, "nobody@example.com")
	assert.Nil(t, got)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, &model.User{Email: "kate@example.com", PasswordHash: "hash"})
	assert.NoError(t, err)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, r.TouchLastLogin(ctx, u.ID, at))

	got, err := r.GetUserByID(ctx, u.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, got.LastLogin) {
		assert.Equal(t, at.Unix(), got.LastLogin.Unix())
	}
}
