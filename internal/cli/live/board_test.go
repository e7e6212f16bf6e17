package live

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_MergesScalarsAndKeepsSample(t *testing.T) {
	b := NewBoard()
	b.ApplyVitals(map[string]any{"heart_rate": float64(72), "spo2": float64(98), "timestamp": "2026-01-01T00:00:00Z"})
	b.ApplyVitals(map[string]any{"heart_rate": float64(75)})

	cur := b.Current()
	assert.EqualValues(t, 75, cur["heart_rate"])
	assert.EqualValues(t, 98, cur["spo2"])
	// нечисловые поля в метрики не попадают
	_, ok := cur["timestamp"]
	assert.False(t, ok)

	samples := b.Samples()
	require.Len(t, samples, 2)
	assert.EqualValues(t, 72, samples[0].Values["heart_rate"])
	assert.EqualValues(t, 75, samples[1].Values["heart_rate"])
	assert.False(t, samples[0].At.IsZero())
}

func TestBoard_SampleWindowIsBounded(t *testing.T) {
	b := NewBoard()
	for i := 0; i < vitalsWindow+7; i++ {
		b.ApplyVitals(map[string]any{"heart_rate": float64(i)})
	}
	samples := b.Samples()
	require.Len(t, samples, vitalsWindow)
	// остаются последние, порядок прихода сохранён
	assert.EqualValues(t, 7, samples[0].Values["heart_rate"])
	assert.EqualValues(t, vitalsWindow+6, samples[len(samples)-1].Values["heart_rate"])
}

func TestBoard_AlertsNewestFirstAndCapped(t *testing.T) {
	b := NewBoard()
	for i := 0; i < alertsKept+3; i++ {
		b.AddAlert(map[string]any{"message": fmt.Sprintf("alert %d", i)})
	}
	alerts := b.Alerts()
	require.Len(t, alerts, alertsKept)
	assert.Equal(t, fmt.Sprintf("alert %d", alertsKept+2), alerts[0]["message"])

	b.AddAlert(nil)
	assert.Len(t, b.Alerts(), alertsKept)
}

func TestBoard_EmptyFrameIgnored(t *testing.T) {
	b := NewBoard()
	b.ApplyVitals(map[string]any{"device_id": "abc"})
	assert.Empty(t, b.Samples())
	assert.Empty(t, b.Current())
}
