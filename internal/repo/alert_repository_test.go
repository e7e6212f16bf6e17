package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"MedMonitor/internal/model"
)

func TestAlertRepository_RecentAndAcknowledge(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	r := NewAlertRepository(db)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, &model.User{Email: "al@example.com", PasswordHash: "hash"})
	assert.NoError(t, err)

	var lastID string
	for i := 0; i < 7; i++ {
		a := &model.Alert{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			Type:      model.AlertWarning,
			VitalType: "heart_rate",
			Value:     105,
			Message:   fmt.Sprintf("High heart rate #%d", i),
		}
		assert.NoError(t, r.Create(ctx, a))
		lastID = a.ID
		// auto-таймстемпы имеют секундную точность в SQLite
		time.Sleep(5 * time.Millisecond)
	}

	recent, err := r.Recent(ctx, u.ID, 5)
	assert.NoError(t, err)
	assert.Len(t, recent, 5)

	n, err := r.Acknowledge(ctx, u.ID, lastID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// несуществующий алерт — ноль затронутых строк
	n, err = r.Acknowledge(ctx, u.ID, uuid.NewString())
	assert.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
